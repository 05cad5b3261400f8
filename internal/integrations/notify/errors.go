package notify

import "errors"

// ErrSend ошибка отправки письма
var ErrSend = errors.New("notify: failed to send email")
