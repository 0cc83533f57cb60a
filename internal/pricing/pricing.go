// Package pricing computes line subtotals and document totals for purchases,
// quotations and sales, and the pack-to-unit conversion used when purchases
// are entered by the case.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidLine       = errors.New("invalid line item")
	ErrInvalidAdjustment = errors.New("invalid discount or tax")
	ErrInvalidPackSize   = errors.New("units per pack must be at least 1")
	ErrTooPrecise        = errors.New("too many decimal places")
)

// Decimal places the stored columns keep. Inputs with more places are
// rejected rather than silently rounded by the database.
const (
	PriceScale    int32 = 2
	QuantityScale int32 = 3
	CostScale     int32 = 4
)

// Line is a single priced row of a document.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Totals is the summary of a priced document.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

func LineSubtotal(l Line) decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// ValidateLine requires a positive quantity and a non-negative unit price.
func ValidateLine(l Line) error {
	if !l.Quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be greater than 0", ErrInvalidLine)
	}
	if l.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price must not be negative", ErrInvalidLine)
	}
	return nil
}

// ValidateScale rejects d when it has more than places decimal places.
func ValidateScale(field string, d decimal.Decimal, places int32) error {
	if !d.Equal(d.Truncate(places)) {
		return fmt.Errorf("%w: %s allows at most %d", ErrTooPrecise, field, places)
	}
	return nil
}

func ValidateLines(lines []Line) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidLine)
	}
	for i, l := range lines {
		if err := ValidateLine(l); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return nil
}

// Subtotal sums the line subtotals in order.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineSubtotal(l))
	}
	return sum
}

// DocumentTotal is subtotal + tax - discount, never below zero.
func DocumentTotal(lines []Line, discount, tax decimal.Decimal) (Totals, error) {
	if discount.IsNegative() || tax.IsNegative() {
		return Totals{}, ErrInvalidAdjustment
	}
	subtotal := Subtotal(lines)
	total := subtotal.Add(tax).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    total,
	}, nil
}

// ConvertPack turns a per-pack quantity and cost into per-unit values.
// The result is what gets persisted; the pack framing is not kept.
func ConvertPack(quantity, packCost decimal.Decimal, unitsPerPack int32) (decimal.Decimal, decimal.Decimal, error) {
	if unitsPerPack < 1 {
		return decimal.Zero, decimal.Zero, ErrInvalidPackSize
	}
	upp := decimal.NewFromInt32(unitsPerPack)
	return quantity.Mul(upp), packCost.Div(upp), nil
}

// Money formats an amount with the two decimals it is shown and exported with.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
