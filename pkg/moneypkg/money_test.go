package moneypkg

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input   string
		want    string
		wantErr error
	}{
		{input: "100000", want: "100000.00"},
		{input: "500000.75", want: "500000.75"},
		{input: "10000.5", want: "10000.50"},
		{input: "1.500", want: "1.50"},
		{input: "-20", want: "-20.00"},
		{input: "1e3", want: "1000.00"},
		{input: "1.005", wantErr: ErrInvalidAmount},
		{input: "0.001", wantErr: ErrInvalidAmount},
		{input: "NaN", wantErr: ErrInvalidAmount},
		{input: "Inf", wantErr: ErrInvalidAmount},
		{input: "", wantErr: ErrInvalidAmount},
		{input: "!@#$", wantErr: ErrInvalidAmount},
		{input: "1000000000000000000", wantErr: ErrAmountOutOfRange},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tc.input)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.ErrorIs(t, err, errorspkg.ErrValidation)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, got.String())
		})
	}
}

func TestArithmeticIsExact(t *testing.T) {
	t.Parallel()

	sum := Zero
	tenCents := MustParse("0.10")

	for i := 0; i < 1000; i++ {
		sum = sum.Add(tenCents)
	}

	require.True(t, sum.Equal(NewFromInt(100)), "sum = %v, want 100.00", sum)
	require.True(t, sum.Sub(NewFromInt(100)).IsZero())
	require.True(t, tenCents.Neg().IsNegative())
	require.True(t, tenCents.IsPositive())
}

func TestComparisons(t *testing.T) {
	t.Parallel()

	a := MustParse("20000")
	b := MustParse("20000.00")
	c := MustParse("19999.99")

	require.Equal(t, 0, a.Cmp(b))
	require.True(t, a.GreaterThanOrEqual(b))
	require.False(t, a.GreaterThan(b))
	require.True(t, a.GreaterThan(c))
	require.True(t, c.LessThan(a))
	require.Equal(t, -1, c.Cmp(a))
}

func TestFromDecimal(t *testing.T) {
	t.Parallel()

	_, err := FromDecimal(decimal.RequireFromString("12.345"))
	require.ErrorIs(t, err, ErrInvalidAmount)

	m, err := FromDecimal(decimal.RequireFromString("12.34"))
	require.NoError(t, err)
	require.Equal(t, "12.34", m.String())
}

func TestJSON(t *testing.T) {
	t.Parallel()

	type body struct {
		Amount Money `json:"amount"`
	}

	data, err := json.Marshal(body{Amount: MustParse("600000")})
	require.NoError(t, err)
	require.JSONEq(t, `{"amount":600000.00}`, string(data))

	var fromNumber body
	require.NoError(t, json.Unmarshal([]byte(`{"amount":10000.5}`), &fromNumber))
	require.Equal(t, "10000.50", fromNumber.Amount.String())

	var fromString body
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"20000"}`), &fromString))
	require.Equal(t, "20000.00", fromString.Amount.String())

	var invalid body
	err = json.Unmarshal([]byte(`{"amount":1.234}`), &invalid)
	require.True(t, errors.Is(err, ErrInvalidAmount), "err = %v", err)
}

func TestScanValue(t *testing.T) {
	t.Parallel()

	var m Money
	require.NoError(t, m.Scan([]byte("590000.00")))
	require.Equal(t, "590000.00", m.String())

	v, err := m.Value()
	require.NoError(t, err)
	require.Equal(t, "590000.00", v)

	require.Error(t, m.Scan("1.999"))
}

func TestValidMoney(t *testing.T) {
	t.Parallel()

	v := validator.New()
	require.NoError(t, v.RegisterValidation("money", ValidMoney))

	type request struct {
		Amount json.Number `validate:"required,money"`
	}

	require.NoError(t, v.Struct(request{Amount: "100000.50"}))
	require.Error(t, v.Struct(request{Amount: "100000.505"}))
	require.Error(t, v.Struct(request{Amount: "-5"}))
	require.Error(t, v.Struct(request{Amount: "0"}))
	require.Error(t, v.Struct(request{Amount: ""}))
}
