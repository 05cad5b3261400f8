package job

import (
	"errors"

	"github.com/m04kA/HomeService-Booking/pkg/pgerr"
)

var (
	// ErrUnavailable возвращается при таймауте или потере соединения с БД
	ErrUnavailable = pgerr.ErrUnavailable

	// ErrJobNotFound возвращается, когда задание не найдено
	ErrJobNotFound = errors.New("job.repository: job not found")

	// ErrJobExists возвращается, когда для бронирования уже создано задание
	ErrJobExists = errors.New("job.repository: job already exists for booking")

	// ErrSerialization возвращается при конфликте сериализуемой транзакции
	ErrSerialization = errors.New("job.repository: serialization failure")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("job.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("job.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("job.repository: failed to scan row")
)
