package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/config"
	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/logging"
)

// HTTPServer оборачивает http.Server жизненным циклом сервиса.
type HTTPServer struct {
	srv    *http.Server
	logger *logging.Logger
}

// NewHTTPServer создаёт HTTP-сервер с заданной конфигурацией. Таймаут
// записи должен покрывать самый долгий запрос — публикацию PNG во
// внешнем хранилище.
func NewHTTPServer(cfg config.HTTPConfig, handler http.Handler, logger *logging.Logger) *HTTPServer {
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &HTTPServer{
		srv:    srv,
		logger: logger,
	}
}

// Start запускает HTTP-сервер. Штатная остановка не считается ошибкой.
func (s *HTTPServer) Start() error {
	s.logger.Info("listening", "addr", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown останавливает сервер, давая текущим доставкам вебхуков
// дописаться в пределах дедлайна контекста.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	shutdownCh := make(chan error, 1)

	go func() {
		shutdownCh <- s.srv.Shutdown(ctx)
	}()

	select {
	case err := <-shutdownCh:
		return err

	case <-ctx.Done():
		return ctx.Err()
	}
}
