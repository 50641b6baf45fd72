package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scentlab/scentmatch/internal/server"
)

var serveWarm bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the recommendation HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := server.New(cfg, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if serveWarm {
			if err := srv.Warm(ctx); err != nil {
				// The provider retries on the next request; log and serve anyway.
				logger.Warn("engine_warmup_failed", slog.String("error", err.Error()))
			}
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		logger.Info("server_shutting_down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveWarm, "warm", true, "build the engine before accepting traffic")
	rootCmd.AddCommand(serveCmd)
}
