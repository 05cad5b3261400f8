package customer

import (
	"errors"

	"github.com/m04kA/HomeService-Booking/pkg/pgerr"
)

var (
	// ErrUnavailable возвращается при таймауте или потере соединения с БД
	ErrUnavailable = pgerr.ErrUnavailable

	// ErrCustomerNotFound возвращается, когда у пользователя нет клиента в платежном шлюзе
	ErrCustomerNotFound = errors.New("customer.repository: payment customer not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("customer.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("customer.repository: failed to execute query")
)
