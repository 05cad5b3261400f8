package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "50.00", FormatCents(5000))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "1234.50", FormatCents(123450))
}

func TestParseCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"49.99", 4999, false},
		{"120", 12000, false},
		{"0.5", 50, false},
		{"1.999", 0, true},
		{"-3.00", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCents(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
