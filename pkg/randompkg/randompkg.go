// Package randompkg provides functionality for generating random applications common items.
package randompkg

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Account number bounds, both inclusive.
const (
	MinAccountNumber = 1_000_000_000
	MaxAccountNumber = 9_999_999_999
)

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	return Int64n(int64(max))
}

// Int64n generates a random integer in [0, max) using crypto/rand.
func Int64n(max int64) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// Int64Between generates a random integer between min and max, both inclusive.
func Int64Between(min, max int64) int64 {
	return min + Int64n(max-min+1)
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// OwnerID generates a random owner id.
func OwnerID() uuid.UUID {
	return uuid.New()
}

// AccountNumber generates a random 10-digit account number.
func AccountNumber() string {
	return strconv.FormatInt(Int64Between(MinAccountNumber, MaxAccountNumber), 10)
}

// MoneyAmountBetween generates a random amount of money between min and max with cents.
func MoneyAmountBetween(min, max int64) moneypkg.Money {
	cents := Int64Between(min*100, max*100)

	m, err := moneypkg.FromDecimal(decimal.New(cents, -moneypkg.Places))
	if err != nil {
		panic(err)
	}

	return m
}
