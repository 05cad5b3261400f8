package invoices

import "errors"

var (
	// ErrInvoiceNotFound возвращается, когда счет не найден
	ErrInvoiceNotFound = errors.New("invoices: invoice not found")

	// ErrJobNotFound возвращается, когда задание для счета не найдено
	ErrJobNotFound = errors.New("invoices: job not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invoices: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("invoices: internal error")

	// ErrStoreUnavailable возвращается при таймауте или потере соединения с БД; запрос можно повторить
	ErrStoreUnavailable = errors.New("invoices: storage unavailable")
)
