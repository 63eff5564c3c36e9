// Package pricing is the single implementation of the discount rules used
// by the menu editor, the public menu, carts and order submission.
package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"restaurantportal/internal/models"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// FinalPrice applies the discount to price. The result is never negative and
// falls back to the base price when the discount cannot be applied. It is not
// rounded; callers round at persistence or display time.
func FinalPrice(price float64, discountType models.DiscountType, discountValue float64) float64 {
	if !isUsable(price) || price < 0 {
		return 0
	}
	base := decimal.NewFromFloat(price)

	if !isUsable(discountValue) || discountValue < 0 {
		return base.InexactFloat64()
	}

	discount := decimal.NewFromFloat(discountValue)
	var final decimal.Decimal
	switch discountType {
	case models.DiscountAmount:
		final = base.Sub(discount)
	case models.DiscountPercentage:
		final = base.Mul(one.Sub(discount.Div(hundred)))
	default:
		final = base
	}

	if final.IsNegative() {
		return 0
	}
	return final.InexactFloat64()
}

// Round2 rounds half away from zero to cents.
func Round2(value float64) float64 {
	if !isUsable(value) {
		return 0
	}
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// StoredFinalPrice is the value persisted on a menu item.
func StoredFinalPrice(price float64, discountType models.DiscountType, discountValue float64) float64 {
	return Round2(FinalPrice(price, discountType, discountValue))
}

// Line is anything priced per unit with a quantity.
type Line interface {
	UnitPrice() float64
	Count() int
}

// Total sums finalPrice x quantity over all lines without intermediate
// rounding and rounds once at the end.
func Total[L Line](lines []L) float64 {
	sum := decimal.Zero
	for _, line := range lines {
		unit := line.UnitPrice()
		if !isUsable(unit) || line.Count() <= 0 {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(unit).Mul(decimal.NewFromInt(int64(line.Count()))))
	}
	return sum.Round(2).InexactFloat64()
}

// LineTotal is the rounded display value of a single line.
func LineTotal(unitPrice float64, quantity int) float64 {
	if !isUsable(unitPrice) || quantity <= 0 {
		return 0
	}
	return decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity))).Round(2).InexactFloat64()
}

// SameAmount reports whether two money values agree to within half a cent.
func SameAmount(a, b float64) bool {
	if !isUsable(a) || !isUsable(b) {
		return false
	}
	diff := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Abs()
	return diff.LessThan(decimal.NewFromFloat(0.005))
}

// Breakdown is what the admin form and storefront show next to an item.
type Breakdown struct {
	Price         float64             `json:"price"`
	DiscountType  models.DiscountType `json:"discountType"`
	DiscountValue float64             `json:"discountValue"`
	FinalPrice    float64             `json:"finalPrice"`
	Label         string              `json:"label"`
}

func Describe(price float64, discountType models.DiscountType, discountValue float64) Breakdown {
	breakdown := Breakdown{
		Price:         Round2(price),
		DiscountType:  discountType,
		DiscountValue: discountValue,
		FinalPrice:    StoredFinalPrice(price, discountType, discountValue),
	}
	if !isUsable(discountValue) || discountValue <= 0 {
		breakdown.DiscountType = models.DiscountNone
		breakdown.DiscountValue = 0
		return breakdown
	}
	switch discountType {
	case models.DiscountPercentage:
		breakdown.Label = fmt.Sprintf("%s%% off", decimal.NewFromFloat(discountValue).String())
	case models.DiscountAmount:
		breakdown.Label = fmt.Sprintf("$%s off", decimal.NewFromFloat(discountValue).StringFixed(2))
	default:
		breakdown.DiscountValue = 0
	}
	return breakdown
}

// FormatPrice renders a value the way every storefront revision did: "$2.50".
func FormatPrice(value float64) string {
	return "$" + decimal.NewFromFloat(Round2(value)).StringFixed(2)
}

func isUsable(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
