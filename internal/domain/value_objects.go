package domain

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
)

// MinorUnit is an amount in the smallest unit of its currency (cents for USD, yen for JPY).
type MinorUnit int64

func (m MinorUnit) Int64() int64 {
	return int64(m)
}

func (m MinorUnit) String() string {
	return strconv.FormatInt(int64(m), 10)
}

// Currency is an ISO 4217 alphabetic code.
type Currency string

func (c Currency) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

type Money struct {
	Amount   MinorUnit
	Currency Currency
}

func NewMoney(amount MinorUnit, currency Currency) (Money, error) {
	if amount < 0 {
		return Money{}, errors.New("amount cannot be negative")
	}
	if !currency.IsValid() {
		return Money{}, errors.New("currency must be a three letter ISO code")
	}
	return Money{Amount: amount, Currency: currency}, nil
}

const maskedValue = "*** masked ***"

// Secret holds credentials and card data. Every printing or encoding path masks it;
// Expose is the only way to get the raw value back.
type Secret string

func (s Secret) Expose() string {
	return string(s)
}

func (s Secret) IsEmpty() bool {
	return s == ""
}

func (s Secret) String() string {
	return maskedValue
}

func (s Secret) GoString() string {
	return maskedValue
}

func (s Secret) LogValue() slog.Value {
	return slog.StringValue(maskedValue)
}

func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(maskedValue)
}
