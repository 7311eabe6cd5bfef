package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"adventune/skrivsite/builder"
	"adventune/skrivsite/config"
)

var (
	serverPort    int
	noWatch       bool
	watchInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site, serve it locally and rebuild on changes",
	Long: `The serve command builds the site for the local target unless --target is
given, serves the output directory over HTTP and rebuilds everything when
content, layouts, static files or the params file change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		if !flagChanged(cmd.Flags(), "target") {
			cfg.Target = config.Local
		}

		b, err := builder.New(cfg)
		if err != nil {
			return err
		}
		if err := b.Build(); err != nil {
			return fmt.Errorf("initial build: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if !noWatch {
			go func() {
				if err := b.Watch(ctx, watchInterval); err != nil {
					log.Error().Err(err).Msg("Watcher stopped")
				}
			}()
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", serverPort),
			Handler: noCache(http.FileServer(http.Dir(cfg.OutputDir))),
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		log.Info().Str("dir", cfg.OutputDir).Int("port", serverPort).Msg("Serving site")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

// noCache stops browsers from caching pages between rebuilds.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8000, "Port to serve the site on")
	serveCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Disable the content watcher")
	serveCmd.Flags().DurationVar(&watchInterval, "interval", 100*time.Millisecond, "How often to poll for changes")
	rootCmd.AddCommand(serveCmd)
}
