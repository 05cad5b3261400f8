// Package pgerr классифицирует ошибки PostgreSQL (lib/pq) по SQLSTATE
package pgerr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/lib/pq"
)

// ErrUnavailable хранилище недоступно (таймаут, обрыв соединения, перегрузка)
// Операцию можно повторить позже
var ErrUnavailable = errors.New("storage: unavailable")

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"

	classConnectionException = "08"
	codeTooManyConnections   = "53300"
	codeQueryCanceled        = "57014" // statement_timeout
	codeAdminShutdown        = "57P01"
	codeCannotConnectNow     = "57P03"
)

// IsSerializationFailure конфликт сериализуемой транзакции или deadlock
// Транзакцию можно повторить целиком
func IsSerializationFailure(err error) bool {
	code := Code(err)
	return code == codeSerializationFailure || code == codeDeadlockDetected
}

// IsUniqueViolation нарушение уникального индекса
func IsUniqueViolation(err error) bool {
	return Code(err) == codeUniqueViolation
}

// IsForeignKeyViolation нарушение внешнего ключа
func IsForeignKeyViolation(err error) bool {
	return Code(err) == codeForeignKeyViolation
}

// Constraint имя нарушенного ограничения или индекса
func Constraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

// Code возвращает SQLSTATE или пустую строку, если это не ошибка PostgreSQL
func Code(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsUnavailable ошибка доступности БД, а не данных или запроса:
// истекший дедлайн, сетевая ошибка, разорванное соединение, перегрузка сервера
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	switch code := Code(err); {
	case strings.HasPrefix(code, classConnectionException):
		return true
	case code == codeTooManyConnections, code == codeQueryCanceled,
		code == codeAdminShutdown, code == codeCannotConnectNow:
		return true
	}
	return false
}

// Wrap оборачивает ошибку запроса sentinel-ошибкой репозитория
// Недоступность БД дополнительно помечается ErrUnavailable, причина сохраняется в цепочке
func Wrap(sentinel error, op string, err error) error {
	if IsUnavailable(err) {
		return fmt.Errorf("%w: %w: %s: %w", ErrUnavailable, sentinel, op, err)
	}
	return fmt.Errorf("%w: %s: %v", sentinel, op, err)
}
