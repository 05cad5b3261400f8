package booking

import (
	"errors"

	"github.com/m04kA/HomeService-Booking/pkg/pgerr"
)

var (
	// ErrUnavailable возвращается при таймауте или потере соединения с БД
	ErrUnavailable = pgerr.ErrUnavailable

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotNotAvailable возвращается, когда на слот уже есть активное бронирование (уникальный индекс)
	ErrSlotNotAvailable = errors.New("booking.repository: slot not available")

	// ErrSerialization возвращается при конфликте сериализуемой транзакции
	ErrSerialization = errors.New("booking.repository: serialization failure")

	// ErrTransaction возвращается, когда операция требует транзакцию, а её нет
	ErrTransaction = errors.New("booking.repository: transaction required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrInvalidStatus возвращается, когда бронирование не в ожидаемом статусе
	ErrInvalidStatus = errors.New("booking.repository: booking is not in expected status")

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено
	ErrCannotCancel = errors.New("booking.repository: booking cannot be cancelled")
)
