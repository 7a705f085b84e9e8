package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const REQUEST_ID_HEADER = "X-Request-Id"

type requestIdKey struct{}

func requestIdField(r *http.Request) zap.Field {
	id, _ := r.Context().Value(requestIdKey{}).(string)
	return zap.String("requestId", id)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger tags every request with an id, echoed in the response
// headers, and logs it once served.
func RequestLogger(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := r.Header.Get(REQUEST_ID_HEADER)
			if id == "" {
				id = uuid.New().String()
			}
			w.Header().Set(REQUEST_ID_HEADER, id)
			r = r.WithContext(context.WithValue(r.Context(), requestIdKey{}, id))

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.Info("Served request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestId", id),
			)
		})
	}
}
