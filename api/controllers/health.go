package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/storerater-backend/api/responses"
	"github.com/angelmondragon/storerater-backend/pkg/config"
	"github.com/angelmondragon/storerater-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/storerater-backend/pkg/errors"
	"github.com/angelmondragon/storerater-backend/pkg/logger"
	"github.com/angelmondragon/storerater-backend/pkg/redis"
)

// HealthLive answers as long as the process is up.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-StoreRater-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// HealthReady reports readiness only when both Postgres and Redis respond.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-StoreRater-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				checks["postgres"] = err.Error()
				healthy = false
			} else {
				checks["postgres"] = "ok"
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				checks["redis"] = err.Error()
				healthy = false
			} else {
				checks["redis"] = "ok"
			}
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
