package middleware

import "time"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// HTTPMetrics метрики HTTP-запросов
type HTTPMetrics interface {
	ObserveHTTP(route, method string, status int, duration time.Duration)
}
