package invoice

import (
	"errors"

	"github.com/m04kA/HomeService-Booking/pkg/pgerr"
)

var (
	// ErrUnavailable возвращается при таймауте или потере соединения с БД
	ErrUnavailable = pgerr.ErrUnavailable

	// ErrInvoiceNotFound возвращается, когда счет не найден
	ErrInvoiceNotFound = errors.New("invoice.repository: invoice not found")

	// ErrJobNotFound возвращается, когда счет ссылается на несуществующее задание
	ErrJobNotFound = errors.New("invoice.repository: referenced job not found")

	// ErrDuplicateNumber возвращается при повторе номера счета
	ErrDuplicateNumber = errors.New("invoice.repository: duplicate invoice number")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("invoice.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("invoice.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("invoice.repository: failed to scan row")
)
