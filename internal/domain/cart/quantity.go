// internal/domain/cart/quantity.go
package cart

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// MaxQuantity caps a decoded quantity
const MaxQuantity = math.MaxInt32

// Quantity is a leniently decoded item quantity. Numbers and numeric
// strings are accepted and rounded half away from zero; anything else
// decodes without error and is reported as invalid.
type Quantity struct {
	value int
	valid bool
}

// UnmarshalJSON never returns an error
func (q *Quantity) UnmarshalJSON(data []byte) error {
	*q = Quantity{}

	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	if raw == "" || len(raw) > 64 {
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil
	}
	if math.IsNaN(f) {
		return nil
	}

	f = math.Round(f)
	switch {
	case f > MaxQuantity:
		f = MaxQuantity
	case f < -MaxQuantity:
		f = -MaxQuantity
	}
	q.value, q.valid = int(f), true
	return nil
}

// Or returns the decoded quantity, or fallback when it is missing or
// not a number
func (q *Quantity) Or(fallback int) int {
	if q == nil || !q.valid {
		return fallback
	}
	return q.value
}
