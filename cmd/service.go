package cmd

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"

	"github.com/isometry/wp-trigger-app/internal/config"
	"github.com/isometry/wp-trigger-app/internal/helpers"
	"github.com/isometry/wp-trigger-app/internal/metrics"
	"github.com/isometry/wp-trigger-app/internal/models"
	"github.com/isometry/wp-trigger-app/internal/runtime"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdService() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service",
		Aliases: []string{"s", "serve", "standalone", "server"},
		PreRunE: func(_ *cobra.Command, _ []string) error {
			logger = logger.With("mode", config.ModeService)
			logger.Info("Spawning...")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var m *metrics.Metrics
			if config.Service.Metrics.Enabled {
				m = metrics.New()
			}
			b := &builder{ctx: cmd.Context(), logger: logger, metrics: m}

			config.TriggerDeclared = config.TriggerDeclared || flagsSet(cmd, "trigger-")
			logger.Debug("Creating trigger runtimes...")
			mounts, err := b.mounts(config.AllTriggers(), runtime.WithRateLimit(config.Service.RateLimit))
			if err != nil {
				return errors.Wrap(err, "failed to setup service")
			}

			s := &http.Server{
				Handler:      newServeMux(mounts, m),
				Addr:         net.JoinHostPort(config.Service.Addr, config.Service.Port),
				WriteTimeout: config.Service.Timeout,
				ReadTimeout:  config.Service.Timeout,
				IdleTimeout:  config.Service.Timeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			serveErr := make(chan error, 1)
			go func() {
				logger.Info("Serving...", "address", s.Addr, slog.Int("triggers", len(mounts)), "timeout", config.Service.Timeout.String())
				serveErr <- s.ListenAndServe()
			}()

			select {
			case err = <-serveErr:
			case <-ctx.Done():
				logger.Info("Shutting down...")
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.Service.Timeout+config.Forward.Timeout)
			defer cancel()
			if err == nil {
				err = s.Shutdown(shutdownCtx)
			}
			if errors.Is(err, http.ErrServerClosed) {
				err = nil
			}
			return stderrors.Join(err, closeMounts(shutdownCtx, mounts))
		},
	}

	bindEnvMap(cmd, svcEnvMapString)
	bindEnvMap(cmd, svcEnvMapInt)
	bindEnvMap(cmd, svcEnvMapBool)
	bindEnvMap(cmd, svcEnvMapDuration)

	return cmd
}

// newServeMux mounts every trigger runtime under the service path alongside the health and metrics endpoints.
func newServeMux(mounts []mount, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	for _, mt := range mounts {
		mux.Handle(mountPattern(http.MethodPost, path.Join(config.Service.Path, mt.Path)), mt.Runtime)
	}
	mux.HandleFunc(mountPattern(http.MethodGet, "/healthz"), func(w http.ResponseWriter, _ *http.Request) {
		helpers.RespondHTTP(models.Response{Body: map[string]string{"status": "ok"}}, nil, w)
	})
	if m != nil {
		mux.Handle(mountPattern(http.MethodGet, config.Service.Metrics.Path), m.Handler())
	}
	return mux
}

// mountPattern matches method on p exactly. Paths ending in a slash do not match their subtree.
func mountPattern(method, p string) string {
	if strings.HasSuffix(p, "/") {
		p += "{$}"
	}
	return method + " " + p
}
