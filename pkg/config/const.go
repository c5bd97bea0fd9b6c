package config

const (
	// EnvPrefix is empty because every variable carries the STORERATER_ prefix
	// in its envconfig tag already.
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "STORERATER_DB_DSN"
	EnvDBHost = "STORERATER_DB_HOST"
	EnvDBUser = "STORERATER_DB_USER"
	EnvDBName = "STORERATER_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
