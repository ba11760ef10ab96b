package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	log "github.com/sirupsen/logrus"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// withRequestID reuses the caller's request id or generates one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// logRequest is a handlers.LogFormatter writing through logrus.
func logRequest(_ io.Writer, params handlers.LogFormatterParams) {
	log.WithFields(log.Fields{
		"method":     params.Request.Method,
		"path":       params.URL.Path,
		"query":      params.URL.RawQuery,
		"status":     params.StatusCode,
		"size":       params.Size,
		"duration":   time.Since(params.TimeStamp).String(),
		"request_id": requestIDFrom(params.Request.Context()),
	}).Info("Handled request")
}
