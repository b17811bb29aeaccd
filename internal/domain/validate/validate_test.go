package validate

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "zero", input: "0", want: 0},
		{name: "positive", input: "250", want: 250},
		{name: "surrounding spaces", input: " 12 ", want: 12},
		{name: "empty", input: "", wantErr: true},
		{name: "letters", input: "250a", wantErr: true},
		{name: "negative", input: "-250", wantErr: true},
		{name: "fraction", input: "1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuantity(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalid)
				var vErr *Error
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "quantity", vErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice("1450")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1450).Equal(p))

	p, err = ParsePrice("0")
	require.NoError(t, err)
	assert.True(t, p.IsZero())

	for _, in := range []string{"", "12a", "-1"} {
		_, err := ParsePrice(in)
		require.ErrorIs(t, err, ErrInvalid, in)
	}
}

func TestParseMaximum(t *testing.T) {
	n, err := ParseMaximum("69")
	require.NoError(t, err)
	assert.Equal(t, 69, n)

	for _, in := range []string{"", "150a", "-231", "0"} {
		_, err := ParseMaximum(in)
		require.ErrorIs(t, err, ErrInvalid, in)
	}
}

func TestPercent(t *testing.T) {
	require.NoError(t, Percent(0))
	require.NoError(t, Percent(100))
	require.ErrorIs(t, Percent(-1), ErrInvalid)
	require.ErrorIs(t, Percent(101), ErrInvalid)

	_, err := ParsePercent("50a")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestName(t *testing.T) {
	require.NoError(t, Name("MacBook Air M2"))
	err := Name("")
	require.Error(t, err)
	assert.EqualError(t, err, "invalid name: must not be empty")
}

func TestError_Wrapped(t *testing.T) {
	err := errors.Wrap(NonNegativeInt("quantity", -3), "set quantity")
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), `invalid quantity "-3"`)
}
