package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/brokerlane/brokerlane-backend/api/responses"
	"github.com/brokerlane/brokerlane-backend/pkg/config"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
)

const envHeader = "X-Brokerlane-Env"

type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing service the request path depends on.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := map[string]string{}
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				status[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				status[name] = "down"
				healthy = false
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "readiness check failed", err)
				}
				continue
			}
			status[name] = "ok"
		}

		if !healthy {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "service not ready").WithDetails(status))
			return
		}
		responses.WriteSuccess(w, status)
	}
}
