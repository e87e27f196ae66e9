package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDeposit(t *testing.T) {
	a := NewAccount(1001, "Lee", "Kim", "Ana", dec("100.00"), time.Time{}, "")

	got, err := a.Deposit(dec("50.50"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("150.50")))
	assert.True(t, a.Balance.Equal(dec("150.50")))
}

func TestDeposit_NonPositive(t *testing.T) {
	a := NewAccount(1001, "Lee", "Kim", "Ana", dec("100.00"), time.Time{}, "")

	for _, amt := range []string{"0", "-10"} {
		_, err := a.Deposit(dec(amt))
		require.ErrorIs(t, err, ErrInvalidAmount, "deposit %s", amt)
		assert.True(t, a.Balance.Equal(dec("100.00")), "balance changed on rejected deposit %s", amt)
	}
}

func TestWithdraw_Plain(t *testing.T) {
	a := NewAccount(1001, "Lee", "Kim", "Ana", dec("100.00"), time.Time{}, "")

	got, err := a.Withdraw(dec("40.00"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("60.00")))

	// Exactly the remaining balance is allowed.
	got, err = a.Withdraw(dec("60.00"))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestWithdraw_Plain_Insufficient(t *testing.T) {
	a := NewAccount(1001, "Lee", "Kim", "Ana", dec("100.00"), time.Time{}, "")

	_, err := a.Withdraw(dec("100.01"))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.True(t, a.Balance.Equal(dec("100.00")))
}

func TestWithdraw_NonPositive(t *testing.T) {
	a := NewAccount(1001, "Lee", "Kim", "Ana", dec("100.00"), time.Time{}, "")

	_, err := a.Withdraw(dec("-5"))
	require.ErrorIs(t, err, ErrInvalidAmount)
	assert.True(t, a.Balance.Equal(dec("100.00")))
}

func TestWithdraw_Credit_WithinBalance(t *testing.T) {
	a := NewCreditAccount(2001, "Ruiz", "Lopez", "Ivan", dec("300.00"), time.Time{}, "", dec("500.00"))

	// amount == balance takes the plain path, credit untouched.
	got, err := a.Withdraw(dec("300.00"))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
	assert.True(t, a.CreditLimit.Equal(dec("500.00")))
}

func TestWithdraw_Credit_DrawsLine(t *testing.T) {
	a := NewCreditAccount(2001, "Ruiz", "Lopez", "Ivan", dec("1000.00"), time.Time{}, "", dec("500.00"))

	got, err := a.Withdraw(dec("1200.00"))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
	assert.True(t, a.Balance.IsZero())
	assert.True(t, a.CreditLimit.Equal(dec("300.00")))
}

func TestWithdraw_Credit_ExhaustsLine(t *testing.T) {
	a := NewCreditAccount(2001, "Ruiz", "Lopez", "Ivan", dec("100.00"), time.Time{}, "", dec("500.00"))

	// amount == balance + limit succeeds and leaves zero credit.
	got, err := a.Withdraw(dec("600.00"))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
	assert.True(t, a.CreditLimit.IsZero())
}

func TestWithdraw_Credit_OverLine(t *testing.T) {
	a := NewCreditAccount(2001, "Ruiz", "Lopez", "Ivan", dec("100.00"), time.Time{}, "", dec("500.00"))

	_, err := a.Withdraw(dec("600.01"))
	require.ErrorIs(t, err, ErrInsufficientFundsAndCredit)
	assert.True(t, a.Balance.Equal(dec("100.00")))
	assert.True(t, a.CreditLimit.Equal(dec("500.00")))
}

func TestNewCreditAccount_DefaultLimit(t *testing.T) {
	a := NewCreditAccount(2001, "Ruiz", "Lopez", "Ivan", dec("100.00"), time.Time{}, "", decimal.Zero)
	assert.True(t, a.CreditLimit.Equal(dec("500")))
}

func TestCreditLine(t *testing.T) {
	plain := NewAccount(1, "a", "b", "c", decimal.Zero, time.Time{}, "")
	_, ok := plain.CreditLine()
	assert.False(t, ok)

	credit := NewCreditAccount(2, "a", "b", "c", decimal.Zero, time.Time{}, "", dec("250"))
	limit, ok := credit.CreditLine()
	require.True(t, ok)
	assert.True(t, limit.Equal(dec("250")))
}

func TestFullName(t *testing.T) {
	a := NewAccount(1, "Lee", "Kim", "Ana", decimal.Zero, date(2024, time.January, 1), "CDMX")
	assert.Equal(t, "Lee Kim Ana", a.FullName())
}
