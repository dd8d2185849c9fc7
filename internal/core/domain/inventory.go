package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	maxNameLength     = 255
	maxCategoryLength = 100
	priceMaxDigits    = 10
	priceDecimals     = 2
	maxQuantity       = math.MaxInt32

	// Prices with a longer coefficient are rejected without counting digits.
	maxCoefficientBits = 4096
)

type InventoryItem struct {
	ID          int64
	Name        string
	Description string
	Quantity    int
	Price       decimal.Decimal
	Category    string
	DateAdded   time.Time
	LastUpdated time.Time
	OwnerID     int64
}

// ItemFields is the full set of caller-writable item fields. Create and
// update both replace every field, so required fields are pointers to tell
// "missing" apart from a zero value.
type ItemFields struct {
	Name        *string
	Description string
	Quantity    *int
	Price       *decimal.Decimal
	Category    string
}

func (f ItemFields) Validate() error {
	verr := &ValidationError{}

	switch {
	case f.Name == nil:
		verr.Add("name", MsgRequired)
	case strings.TrimSpace(*f.Name) == "":
		verr.Add("name", MsgBlank)
	case utf8.RuneCountInString(*f.Name) > maxNameLength:
		verr.Add("name", MaxLengthMessage(maxNameLength))
	}

	if f.Quantity == nil {
		verr.Add("quantity", MsgRequired)
	} else if *f.Quantity < 0 {
		verr.Add("quantity", "Quantity cannot be negative")
	} else if *f.Quantity > maxQuantity {
		verr.Add("quantity", fmt.Sprintf("Ensure this value is less than or equal to %d.", maxQuantity))
	}

	if f.Price == nil {
		verr.Add("price", MsgRequired)
	} else {
		validatePrice(verr, *f.Price)
	}

	if utf8.RuneCountInString(f.Category) > maxCategoryLength {
		verr.Add("category", MaxLengthMessage(maxCategoryLength))
	}

	return verr.OrNil()
}

// Apply overwrites every writable field of item. Validate must pass first.
func (f ItemFields) Apply(item *InventoryItem) {
	item.Name = *f.Name
	item.Description = f.Description
	item.Quantity = *f.Quantity
	item.Price = *f.Price
	item.Category = f.Category
}

func validatePrice(verr *ValidationError, price decimal.Decimal) {
	if !price.IsPositive() {
		verr.Add("price", "Price must be greater than zero")
		return
	}

	whole, frac, ok := splitDigits(price)
	switch {
	case !ok || whole+frac > priceMaxDigits:
		verr.Add("price", "Ensure that there are no more than 10 digits in total.")
	case frac > priceDecimals:
		verr.Add("price", "Ensure that there are no more than 2 decimal places.")
	case whole > priceMaxDigits-priceDecimals:
		verr.Add("price", "Ensure that there are no more than 8 digits before the decimal point.")
	}
}

// splitDigits counts significant integer and fractional digits, ignoring
// leading and trailing zeros. It works on the coefficient and exponent so a
// value like 1e50000000 is never expanded. ok is false when the coefficient
// alone exceeds maxCoefficientBits.
func splitDigits(d decimal.Decimal) (whole, frac int64, ok bool) {
	coef := d.Coefficient()
	if coef.BitLen() > maxCoefficientBits {
		return 0, 0, false
	}

	digits := coef.Abs(coef).String()
	trimmed := strings.TrimRight(digits, "0")
	if trimmed == "" {
		return 0, 0, true
	}
	exp := int64(d.Exponent()) + int64(len(digits)-len(trimmed))
	n := int64(len(trimmed))

	if exp >= 0 {
		return n + exp, 0, true
	}
	return max(n+exp, 0), -exp, true
}
