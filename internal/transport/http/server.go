package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/asquebay/coffee-order-service/internal/config"
)

// Server обёртка над стандартным http.Server
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// NewServer создает и конфигурирует экземпляр Server
func NewServer(cfg config.HTTPServer, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Port,
			Handler:           handler,
			ReadTimeout:       cfg.Timeout,
			ReadHeaderTimeout: cfg.Timeout,
			WriteTimeout:      cfg.Timeout,
			IdleTimeout:       4 * cfg.Timeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx
// штатная остановка не считается ошибкой
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}
