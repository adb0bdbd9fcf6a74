// Package amount implements the fixed-point monetary value used throughout the
// ledger. Values are stored as a signed count of 1/10000 units so that balance
// arithmetic is exact; decimal text is only handled at the boundary, through
// shopspring/decimal.
package amount

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits an Amount carries.
const Scale = 4

// Zero is the zero Amount.
const Zero Amount = 0

var (
	// ErrMalformed is returned when the text is not a decimal number.
	ErrMalformed = errors.New("malformed amount")
	// ErrNegative is returned when a parsed amount is below zero.
	ErrNegative = errors.New("negative amount")
	// ErrPrecision is returned when a parsed amount has more than Scale fractional digits.
	ErrPrecision = errors.New("amount exceeds 4 fractional digits")
	// ErrOverflow is returned when a value does not fit the scaled representation.
	ErrOverflow = errors.New("amount overflow")
)

var maxUnits = decimal.NewFromInt(math.MaxInt64)

// maxIntegerDigits is the longest integer part, leading zeros aside, that can
// still fit the scaled representation.
const maxIntegerDigits = 15

// Amount is a fixed-point value with Scale fractional digits.
type Amount int64

// FromUnits returns the Amount made of n 1/10000 units.
func FromUnits(n int64) Amount {
	return Amount(n)
}

// Parse converts decimal text such as "1", "1.5" or "0.0001" into an Amount.
// Only plain digits with an optional fractional part are accepted; signs,
// exponents and more than Scale fractional digits are rejected, as are values
// that do not fit in the scaled representation.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, fmt.Errorf("%w: empty value", ErrMalformed)
	}
	if err := checkSyntax(s); err != nil {
		return Zero, err
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	units := d.Shift(Scale)
	if units.GreaterThan(maxUnits) {
		return Zero, fmt.Errorf("%w: %s", ErrOverflow, s)
	}

	return Amount(units.IntPart()), nil
}

// checkSyntax validates s against digits[.digits]. The digit counts it
// enforces bound the cost of the decimal conversion that follows.
func checkSyntax(s string) error {
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		if checkSyntax(rest) == nil {
			return fmt.Errorf("%w: %s", ErrNegative, s)
		}
		return fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	whole, frac, hasPoint := strings.Cut(s, ".")
	if !isDigits(whole) || (hasPoint && !isDigits(frac)) {
		return fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if len(frac) > Scale {
		return fmt.Errorf("%w: %s", ErrPrecision, s)
	}
	if len(strings.TrimLeft(whole, "0")) > maxIntegerDigits {
		return fmt.Errorf("%w: %s", ErrOverflow, s)
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MustParse is like Parse but panics on error.
// Use only in tests or with literals known to be valid.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Units returns the raw scaled integer.
func (a Amount) Units() int64 {
	return int64(a)
}

// Add returns a+b, or ErrOverflow if the result does not fit.
func (a Amount) Add(b Amount) (Amount, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return Zero, ErrOverflow
	}
	return a + b, nil
}

// Sub returns a-b, or ErrOverflow if the result does not fit.
func (a Amount) Sub(b Amount) (Amount, error) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return Zero, ErrOverflow
	}
	return a - b, nil
}

// Cmp compares a and b and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// IsZero reports whether a is zero.
func (a Amount) IsZero() bool {
	return a == 0
}

// IsNegative reports whether a is below zero.
func (a Amount) IsNegative() bool {
	return a < 0
}

// Decimal returns a as a decimal.Decimal.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

// String renders a with exactly Scale fractional digits, e.g. "1.5000".
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

// GoString renders a as a Go expression, for dumps.
func (a Amount) GoString() string {
	return fmt.Sprintf("amount.MustParse(%q)", a.String())
}
