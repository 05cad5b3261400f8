package reconciliation

import (
	"errors"

	"github.com/m04kA/HomeService-Booking/pkg/pgerr"
)

var (
	// ErrUnavailable возвращается при таймауте или потере соединения с БД
	ErrUnavailable = pgerr.ErrUnavailable

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reconciliation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reconciliation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reconciliation.repository: failed to scan row")
)
