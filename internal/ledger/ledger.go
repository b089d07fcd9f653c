// Package ledger holds the transaction model and the dashboard aggregations
// derived from it.
package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Cents is an exact money amount. All arithmetic stays in integer cents so
// totals never drift the way binary floats do.
type Cents int64

// ParseAmount converts a decimal string like "12.99" into cents. At most two
// fractional digits are accepted.
func ParseAmount(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if whole == "" {
		whole = "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	var f int64
	switch len(frac) {
	case 0:
	case 1:
		f, err = strconv.ParseInt(frac, 10, 64)
		f *= 10
	case 2:
		f, err = strconv.ParseInt(frac, 10, 64)
	default:
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	c := Cents(w*100 + f)
	if neg {
		c = -c
	}
	return c, nil
}

// String renders the amount as a plain decimal, e.g. "12.99" or "-3.50".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Type partitions ledger entries.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// DateLayout is the ISO date format ledger entries carry.
const DateLayout = "2006-01-02"

// Transaction is one ledger entry. The collection is ordered newest first.
type Transaction struct {
	ID       string `json:"id"`
	Type     Type   `json:"type"`
	Amount   Cents  `json:"amount"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Note     string `json:"note"`
}

// Validate checks the fields a new entry must carry.
func (t Transaction) Validate() error {
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return fmt.Errorf("type must be income or expense")
	}
	if t.Amount < 0 {
		return fmt.Errorf("amount must not be negative")
	}
	if t.Date != "" {
		if _, err := time.Parse(DateLayout, t.Date); err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD")
		}
	}
	return nil
}
