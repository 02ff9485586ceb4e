// Package http arranca el servidor del servicio.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/fileconv/internal/observability/logger"
)

// Start levanta el servidor en addr y bloquea hasta que ctx se cancele
// o el listener falle. Al cancelar, drena conexiones en curso con un
// shutdown con timeout; las conversiones largas tienen chance de
// terminar antes del corte.
func Start(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Named("http").Info("listening", logger.String("addr", addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Named("http").Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
