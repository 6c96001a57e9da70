package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// App wraps an [http.Server] over a [Router] with context-driven shutdown.
type App struct {
	addr   string
	router Router
	logger *log.Logger
}

// NewApp creates a new [App] listening on addr.
func NewApp(addr string, router Router, logger *log.Logger) *App {
	return &App{addr: addr, router: router, logger: logger}
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully with a short drain window.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    a.addr,
		Handler: a.router,
	}

	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", a.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
