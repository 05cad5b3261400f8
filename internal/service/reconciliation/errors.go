package reconciliation

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reconciliation: internal error")

	// ErrStoreUnavailable возвращается при таймауте или потере соединения с БД; запрос можно повторить
	ErrStoreUnavailable = errors.New("reconciliation: storage unavailable")
)
