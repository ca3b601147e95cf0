package entities

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CatalogPrefixLength is the number of leading characters of an item code
// that identify its product family
const CatalogPrefixLength = 3

// Quantity represents a unit count. Spreadsheet exports carry both whole and
// fractional values, so it is backed by a decimal rather than an int64.
type Quantity decimal.Decimal

// NewQuantity creates a Quantity from a whole number of units
func NewQuantity(units int64) Quantity {
	return Quantity(decimal.NewFromInt(units))
}

// ZeroQuantity is the additive identity used by every aggregation
var ZeroQuantity = Quantity(decimal.Zero)

// Decimal exposes the underlying decimal value
func (q Quantity) Decimal() decimal.Decimal {
	return decimal.Decimal(q)
}

// Add returns q + other
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity(q.Decimal().Add(other.Decimal()))
}

// IsZero reports whether the quantity is exactly zero
func (q Quantity) IsZero() bool {
	return q.Decimal().IsZero()
}

// IsPositive reports whether the quantity is strictly greater than zero
func (q Quantity) IsPositive() bool {
	return q.Decimal().IsPositive()
}

// Equal compares two quantities by value
func (q Quantity) Equal(other Quantity) bool {
	return q.Decimal().Equal(other.Decimal())
}

// String renders the quantity without trailing zeros
func (q Quantity) String() string {
	return q.Decimal().String()
}

// MarshalJSON encodes the quantity as a JSON number
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.Decimal().String()), nil
}

// SumQuantities adds up a slice of quantities
func SumQuantities(quantities ...Quantity) Quantity {
	total := ZeroQuantity
	for _, q := range quantities {
		total = total.Add(q)
	}
	return total
}

// CatalogPrefix returns the product family key of an item code: its first
// three characters, or the whole code when shorter. Empty codes have no prefix.
func CatalogPrefix(itemCode string) (string, bool) {
	code := strings.TrimSpace(itemCode)
	if code == "" {
		return "", false
	}
	runes := []rune(code)
	if len(runes) > CatalogPrefixLength {
		runes = runes[:CatalogPrefixLength]
	}
	return string(runes), true
}
