package stripe

import "time"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics метрики вызовов шлюза
type Metrics interface {
	ObserveGatewayCall(operation string, err error, duration time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ObserveGatewayCall(string, error, time.Duration) {}
