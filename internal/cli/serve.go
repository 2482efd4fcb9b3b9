package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/coregx/relattice/dispatch"
	"github.com/coregx/relattice/internal/config"
	"github.com/gorilla/handlers"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// newServer builds the HTTP server for cfg. Requests are logged in Combined
// Log Format to accessLog.
func newServer(cfg *config.Config, addr string, accessLog io.Writer, logger zerolog.Logger) (*http.Server, error) {
	lc, err := cfg.LatticeConfig(logger)
	if err != nil {
		return nil, err
	}
	router, err := dispatch.NewRouter(lc)
	if err != nil {
		return nil, err
	}

	patterns := make([]dispatch.Match, 0, len(cfg.Patterns))
	for _, p := range cfg.Patterns {
		expr, err := p.Expression()
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, dispatch.Match{Name: p.Name, Expression: expr})
	}
	api, err := dispatch.NewAPI(router, patterns)
	if err != nil {
		return nil, errors.Wrap(err, "failed to register patterns")
	}

	return &http.Server{
		Addr:           addr,
		Handler:        handlers.CombinedLoggingHandler(accessLog, api.Handler()),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}, nil
}

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pattern set over HTTP",
		Long: `Serve the pattern set over HTTP:

  GET  /v1/match?text=...&strict=true
  GET  /v1/roots
  POST /v1/patterns   {"name": "...", "expr": "..."}
  GET  /route/<path>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			srv, err := newServer(cfg, addr, cmd.ErrOrStderr(), a.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			a.logger.Info().Str("addr", addr).Int("patterns", len(cfg.Patterns)).Msg("serving")
			fmt.Fprintf(cmd.ErrOrStderr(), "listening on %s\n", addr)

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdown)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	return cmd
}
