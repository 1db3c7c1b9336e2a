// Package money holds currency amounts as whole cents so that totals and
// balances add up exactly. Amounts map to NUMERIC(18,2) columns through pgx
// and to plain decimal numbers in JSON.
package money

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// Amount is a currency value in cents.
type Amount int64

var (
	errFormat    = errors.New("money: amount must be a decimal number with at most two decimal places")
	errNotFinite = errors.New("money: amount must be a finite number")
)

// Cents builds an Amount from a count of cents.
func Cents(c int64) Amount { return Amount(c) }

// Parse reads "12", "12.3", "12.34" or "-0.50". More than two decimal places
// is an error rather than a silent rounding.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, hasDot := strings.Cut(s, ".")
	if whole == "" || len(frac) > 2 || (hasDot && frac == "") {
		return 0, errFormat
	}
	for _, part := range []string{whole, frac} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return 0, errFormat
			}
		}
	}
	for len(frac) < 2 {
		frac += "0"
	}
	c, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("money: %w", err)
	}
	if neg {
		c = -c
	}
	return Amount(c), nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Cents() int64 { return int64(a) }

// Mul scales a unit price by a quantity.
func (a Amount) Mul(n int32) Amount { return a * Amount(n) }

func (a Amount) String() string {
	c := int64(a)
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ScanNumeric implements pgtype.NumericScanner.
func (a *Amount) ScanNumeric(n pgtype.Numeric) error {
	if !n.Valid {
		return errors.New("money: cannot scan NULL into Amount")
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return errNotFinite
	}
	c := new(big.Int).Set(n.Int)
	shift := int64(n.Exp) + 2
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(abs(shift)), nil)
	if shift >= 0 {
		c.Mul(c, pow)
	} else {
		var rem big.Int
		c.QuoRem(c, pow, &rem)
		if rem.Sign() != 0 {
			return fmt.Errorf("money: %s has fractional cents", n.Int.String())
		}
	}
	if !c.IsInt64() {
		return errors.New("money: amount out of range")
	}
	*a = Amount(c.Int64())
	return nil
}

// NumericValue implements pgtype.NumericValuer.
func (a Amount) NumericValue() (pgtype.Numeric, error) {
	return pgtype.Numeric{Int: big.NewInt(int64(a)), Exp: -2, Valid: true}, nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
