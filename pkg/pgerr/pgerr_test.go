package pgerr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	serialization := fmt.Errorf("commit: %w", &pq.Error{Code: "40001"})
	unique := &pq.Error{Code: "23505"}
	fk := &pq.Error{Code: "23503"}
	plain := errors.New("connection refused")

	assert.True(t, IsSerializationFailure(serialization))
	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40P01"}))
	assert.False(t, IsSerializationFailure(unique))

	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsForeignKeyViolation(fk))

	assert.Equal(t, "idx_bookings_active_slot",
		Constraint(&pq.Error{Code: "23505", Constraint: "idx_bookings_active_slot"}))
	assert.Empty(t, Constraint(plain))

	assert.Empty(t, Code(plain))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadline", fmt.Errorf("exec: %w", context.DeadlineExceeded), true},
		{"bad conn", driver.ErrBadConn, true},
		{"conn done", sql.ErrConnDone, true},
		{"network", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, true},
		{"connection failure", &pq.Error{Code: "08006"}, true},
		{"statement timeout", &pq.Error{Code: "57014"}, true},
		{"too many connections", &pq.Error{Code: "53300"}, true},
		{"unique violation", &pq.Error{Code: "23505"}, false},
		{"no rows", sql.ErrNoRows, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnavailable(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	errExec := errors.New("repository: failed to execute query")

	timeout := Wrap(errExec, "List - execute query", context.DeadlineExceeded)
	assert.ErrorIs(t, timeout, ErrUnavailable)
	assert.ErrorIs(t, timeout, errExec)
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)

	syntax := Wrap(errExec, "List - execute query", &pq.Error{Code: "42601"})
	assert.ErrorIs(t, syntax, errExec)
	assert.NotErrorIs(t, syntax, ErrUnavailable)
}
