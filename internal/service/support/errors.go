package support

import "errors"

var (
	// ErrJobNotFound возвращается, когда задание не найдено
	ErrJobNotFound = errors.New("support: job not found")

	// ErrAccessDenied возвращается при обращении по чужому заданию
	ErrAccessDenied = errors.New("support: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("support: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("support: internal error")

	// ErrStoreUnavailable возвращается при таймауте или потере соединения с БД; запрос можно повторить
	ErrStoreUnavailable = errors.New("support: storage unavailable")
)
