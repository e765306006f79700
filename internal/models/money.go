package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/payengine/internal/apperrors"
)

// Amount keeps exactly four fractional digits
const (
	amountExponent = 4
	amountScale    = 10000
)

// Amount is a fixed-point monetary value stored as an integer number of
// 1/10000 units. All arithmetic is exact integer arithmetic; only parsing
// and rendering deal with the decimal representation.
type Amount int64

// ParseAmount converts a decimal string like "1.5" or "-123.4567" into an
// Amount. Values with more than four fractional digits can't be represented
// and are rejected.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrAmountInvalid, s)
	}

	scaled := d.Mul(decimal.New(1, amountExponent))
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", apperrors.ErrAmountInvalid, s, amountExponent)
	}

	// IntPart silently truncates outside the int64 range
	if scaled.Abs().GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, fmt.Errorf("%w: %q does not fit the representable range", apperrors.ErrAmountInvalid, s)
	}

	return Amount(scaled.IntPart()), nil
}

func (a Amount) Add(other Amount) Amount {
	return a + other
}

func (a Amount) Sub(other Amount) Amount {
	return a - other
}

func (a Amount) Neg() Amount {
	return -a
}

// String renders the amount with trailing fractional zeros trimmed,
// so 15000 -> "1.5" and 10000 -> "1".
func (a Amount) String() string {
	v := int64(a)

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	units := v / amountScale
	frac := v % amountScale
	if frac == 0 {
		return sign + strconv.FormatInt(units, 10)
	}

	fracDigits := strings.TrimRight(fmt.Sprintf("%04d", frac), "0")
	return fmt.Sprintf("%s%d.%s", sign, units, fracDigits)
}
