package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jroosing/hydradig/internal/api"
	"github.com/jroosing/hydradig/internal/lookup"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var host string
	var port int

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST lookup API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(flags)
			if err != nil {
				return err
			}
			if host != "" {
				cfg.API.Host = host
			}
			if port != 0 {
				cfg.API.Port = port
			}

			orch := newOrchestrator(cfg, logger)
			store := openHistory(cfg, logger)
			if store != nil {
				defer store.Close()
			}

			srv := api.New(cfg, logger, func(ctx context.Context, domain lookup.Domain, types []lookup.RecordType) lookup.Result {
				return orch.Lookup(ctx, domain, types)
			}, store)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()
			logger.Info("API server listening", "addr", srv.Addr())

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	c.Flags().StringVar(&host, "host", "", "Override bind host")
	c.Flags().IntVar(&port, "port", 0, "Override bind port")
	return c
}
