// Package amount converts minor-unit amounts to and from the representations
// connectors put on the wire.
package amount

import (
	"fmt"

	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

var zeroDecimal = map[domain.Currency]struct{}{
	"BIF": {}, "CLP": {}, "DJF": {}, "GNF": {}, "ISK": {}, "JPY": {}, "KMF": {}, "KRW": {},
	"PYG": {}, "RWF": {}, "UGX": {}, "VND": {}, "VUV": {}, "XAF": {}, "XOF": {}, "XPF": {},
}

var threeDecimal = map[domain.Currency]struct{}{
	"BHD": {}, "IQD": {}, "JOD": {}, "KWD": {}, "LYD": {}, "OMR": {}, "TND": {},
}

// Exponent is the number of minor-unit digits of the currency.
func Exponent(c domain.Currency) (int32, error) {
	if !c.IsValid() {
		return 0, fmt.Errorf("%w: invalid currency %q", ErrConversion, c)
	}
	if _, ok := zeroDecimal[c]; ok {
		return 0, nil
	}
	if _, ok := threeDecimal[c]; ok {
		return 3, nil
	}
	return 2, nil
}

func IsZeroDecimal(c domain.Currency) bool {
	_, ok := zeroDecimal[c]
	return ok
}
