package jobs

import "errors"

var (
	// ErrJobNotFound возвращается, когда задание не найдено
	ErrJobNotFound = errors.New("jobs: job not found")

	// ErrJobClosed возвращается при изменении завершенного или отмененного задания
	ErrJobClosed = errors.New("jobs: job is closed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("jobs: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("jobs: internal error")

	// ErrStoreUnavailable возвращается при таймауте или потере соединения с БД; запрос можно повторить
	ErrStoreUnavailable = errors.New("jobs: storage unavailable")
)
