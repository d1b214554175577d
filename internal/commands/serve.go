package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/balancete/internal/pipeline"
	"github.com/cleared-dev/balancete/internal/report"
	"github.com/cleared-dev/balancete/internal/web"
)

func newServeCommand() *cobra.Command {
	var dir string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(dir)
			if err != nil {
				return err
			}
			if err := p.env.CheckServe(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := web.NewServer(p.svc, report.NewConverter(p.env.GotenbergURL), p.env, p.log)
			server := &http.Server{
				Addr:    p.env.Addr,
				Handler: srv.Router(),
			}

			if watch {
				watcher := pipeline.NewWatcher(p.svc)
				go func() {
					if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
						p.log.WithError(err).Error("import watcher stopped")
						stop()
					}
				}()
			}

			go func() {
				p.log.WithField("addr", p.env.Addr).Info("http server listening")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.log.WithError(err).Error("http server failed")
					stop()
				}
			}()

			<-ctx.Done()
			p.log.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().BoolVar(&watch, "watch", false, "also watch the import directory for new balancetes")
	return cmd
}
