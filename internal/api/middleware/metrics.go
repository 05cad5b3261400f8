package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// MetricsMiddleware записывает метрики запросов по шаблону маршрута
// Шаблон ("/api/v1/bookings/{bookingId}") не раздувает кардинальность меток
func MetricsMiddleware(collector HTTPMetrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			route := "unmatched"
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}
			collector.ObserveHTTP(route, r.Method, rec.status, time.Since(start))
		})
	}
}
