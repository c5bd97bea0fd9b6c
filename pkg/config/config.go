package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STORERATER_APP_ENV" required:"true"`
	Port         string `envconfig:"STORERATER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STORERATER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STORERATER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STORERATER_DB_DSN"`
	Driver string `envconfig:"STORERATER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STORERATER_DB_HOST"`
	LegacyPort     int    `envconfig:"STORERATER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STORERATER_DB_USER"`
	LegacyPassword string `envconfig:"STORERATER_DB_PASSWORD"`
	LegacyName     string `envconfig:"STORERATER_DB_NAME"`
	LegacySSLMode  string `envconfig:"STORERATER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STORERATER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STORERATER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STORERATER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STORERATER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STORERATER_REDIS_URL"`
	Address      string        `envconfig:"STORERATER_REDIS_ADDR"`
	Password     string        `envconfig:"STORERATER_REDIS_PASSWORD"`
	DB           int           `envconfig:"STORERATER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STORERATER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STORERATER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STORERATER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STORERATER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STORERATER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"STORERATER_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STORERATER_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"STORERATER_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STORERATER_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STORERATER_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STORERATER_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STORERATER_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STORERATER_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"STORERATER_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"STORERATER_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"STORERATER_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"STORERATER_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"STORERATER_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"STORERATER_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	ClientOrigin string `envconfig:"STORERATER_CLIENT_ORIGIN" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STORERATER_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
