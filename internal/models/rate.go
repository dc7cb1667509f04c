package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Rate is an hourly rate in SOL.
type Rate struct {
	decimal.Decimal
}

func NewRate(d decimal.Decimal) Rate { return Rate{Decimal: d} }

// RateFromFloat is a convenience for tests and defaults.
func RateFromFloat(f float64) Rate { return Rate{Decimal: decimal.NewFromFloat(f)} }

// ParseRate coerces user input into a Rate. An empty string yields zero.
func ParseRate(s string) (Rate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Rate{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Rate{}, fmt.Errorf("hourly rate must be a number: %q", s)
	}
	return Rate{Decimal: d}, nil
}

func (r Rate) String() string { return r.Decimal.String() }

// MarshalJSON writes the rate as a bare JSON number.
func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(r.Decimal.String()), nil
}

// UnmarshalJSON accepts both numbers and numeric strings.
func (r *Rate) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		r.Decimal = decimal.Zero
		return nil
	}
	s = strings.Trim(s, `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid hourly rate %s: %w", b, err)
	}
	r.Decimal = d
	return nil
}
