package httpapi

import (
	"net/http"
	"time"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/logging"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware логирует входящие HTTP-запросы и их статус/длительность.
func LoggingMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)
			duration := time.Since(start)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// RecoveryMiddleware перехватывает panic, логирует их и возвращает INTERNAL ошибку.
func RecoveryMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", "panic", rec)
					WriteError(w, &internalError{})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// APIKeyMiddleware проверяет X-API-Key на защищённых маршрутах.
// Пустой настроенный ключ отключает проверку (дев-режим).
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey != "" && r.Header.Get("X-API-Key") != apiKey {
				WriteUnauthorized(w, "Invalid or missing API key. Please provide X-API-Key header.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// internalError используется для возврата INTERNAL при панике
type internalError struct{}

func (e *internalError) Error() string { return "internal error" }
