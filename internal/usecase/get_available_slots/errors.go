package get_available_slots

import "errors"

var (
	// ErrInvalidDate возвращается, когда дата уже прошла
	ErrInvalidDate = errors.New("get_available_slots: date is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceDays
	ErrDateTooFarInFuture = errors.New("get_available_slots: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")

	// ErrStoreUnavailable возвращается при таймауте или потере соединения с БД; запрос можно повторить
	ErrStoreUnavailable = errors.New("get_available_slots: storage unavailable")
)
