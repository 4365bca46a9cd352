package amount

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrConversion = errors.New("amount conversion failed")

// Convertor maps a minor-unit amount to a connector's native representation T and back.
type Convertor[T any] interface {
	Convert(amount domain.MinorUnit, currency domain.Currency) (T, error)
	ConvertBack(amount T, currency domain.Currency) (domain.MinorUnit, error)
}

// StringMinorUnit is a minor-unit amount sent as a JSON string ("1000").
type StringMinorUnit string

// StringMajorUnit is a major-unit decimal sent as a string ("10.00").
type StringMajorUnit string

// FloatMajorUnit is a major-unit decimal sent as a JSON number (10.0).
type FloatMajorUnit float64

type MinorUnitForConnector struct{}

func (MinorUnitForConnector) Convert(amount domain.MinorUnit, _ domain.Currency) (domain.MinorUnit, error) {
	return amount, nil
}

func (MinorUnitForConnector) ConvertBack(amount domain.MinorUnit, _ domain.Currency) (domain.MinorUnit, error) {
	return amount, nil
}

type StringMinorUnitForConnector struct{}

func (StringMinorUnitForConnector) Convert(amount domain.MinorUnit, _ domain.Currency) (StringMinorUnit, error) {
	return StringMinorUnit(strconv.FormatInt(int64(amount), 10)), nil
}

func (StringMinorUnitForConnector) ConvertBack(amount StringMinorUnit, _ domain.Currency) (domain.MinorUnit, error) {
	v, err := strconv.ParseInt(string(amount), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a minor unit amount", ErrConversion, amount)
	}
	return domain.MinorUnit(v), nil
}

type StringMajorUnitForConnector struct{}

func (StringMajorUnitForConnector) Convert(amount domain.MinorUnit, currency domain.Currency) (StringMajorUnit, error) {
	exp, err := Exponent(currency)
	if err != nil {
		return "", err
	}
	return StringMajorUnit(toMajor(amount, exp).StringFixed(exp)), nil
}

func (StringMajorUnitForConnector) ConvertBack(amount StringMajorUnit, currency domain.Currency) (domain.MinorUnit, error) {
	d, err := decimal.NewFromString(string(amount))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a decimal", ErrConversion, amount)
	}
	return toMinor(d, currency)
}

type FloatMajorUnitForConnector struct{}

func (FloatMajorUnitForConnector) Convert(amount domain.MinorUnit, currency domain.Currency) (FloatMajorUnit, error) {
	exp, err := Exponent(currency)
	if err != nil {
		return 0, err
	}
	return FloatMajorUnit(toMajor(amount, exp).InexactFloat64()), nil
}

func (FloatMajorUnitForConnector) ConvertBack(amount FloatMajorUnit, currency domain.Currency) (domain.MinorUnit, error) {
	exp, err := Exponent(currency)
	if err != nil {
		return 0, err
	}
	// Floats carry binary noise; round to the currency precision before shifting.
	d := decimal.NewFromFloat(float64(amount)).Round(exp)
	return toMinor(d, currency)
}

func toMajor(amount domain.MinorUnit, exp int32) decimal.Decimal {
	return decimal.New(int64(amount), -exp)
}

func toMinor(d decimal.Decimal, currency domain.Currency) (domain.MinorUnit, error) {
	exp, err := Exponent(currency)
	if err != nil {
		return 0, err
	}
	shifted := d.Shift(exp)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s has more than %d decimals for %s", ErrConversion, d.String(), exp, currency)
	}
	return domain.MinorUnit(shifted.IntPart()), nil
}
