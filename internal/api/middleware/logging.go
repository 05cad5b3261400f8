package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader заголовок с идентификатором запроса
const RequestIDHeader = "X-Request-ID"

// statusRecorder запоминает код ответа
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// Logging пишет строку лога на каждый запрос
// Идентификатор запроса берется из X-Request-ID или генерируется и возвращается клиенту
func Logging(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			switch {
			case rec.status >= http.StatusInternalServerError:
				logger.Error("HTTP %s %s -> %d (%s) request_id=%s", r.Method, r.URL.Path, rec.status, duration, requestID)
			case rec.status >= http.StatusBadRequest:
				logger.Warn("HTTP %s %s -> %d (%s) request_id=%s", r.Method, r.URL.Path, rec.status, duration, requestID)
			default:
				logger.Info("HTTP %s %s -> %d (%s) request_id=%s", r.Method, r.URL.Path, rec.status, duration, requestID)
			}
		})
	}
}
