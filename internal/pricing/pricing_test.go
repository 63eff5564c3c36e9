package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"restaurantportal/internal/models"
)

func TestFinalPriceExamples(t *testing.T) {
	tests := []struct {
		name          string
		price         float64
		discountType  models.DiscountType
		discountValue float64
		want          float64
	}{
		{name: "percentage", price: 10.00, discountType: models.DiscountPercentage, discountValue: 20, want: 8.00},
		{name: "amount", price: 10.00, discountType: models.DiscountAmount, discountValue: 3.00, want: 7.00},
		{name: "amount clamps at zero", price: 5.00, discountType: models.DiscountAmount, discountValue: 10.00, want: 0},
		{name: "percentage over 100 clamps", price: 5.00, discountType: models.DiscountPercentage, discountValue: 150, want: 0},
		{name: "none ignores value", price: 2.50, discountType: models.DiscountNone, discountValue: 1, want: 2.50},
		{name: "unknown type is no discount", price: 2.50, discountType: "bogo", discountValue: 1, want: 2.50},
		{name: "NaN discount falls back to price", price: 4.00, discountType: models.DiscountAmount, discountValue: math.NaN(), want: 4.00},
		{name: "negative discount falls back to price", price: 4.00, discountType: models.DiscountPercentage, discountValue: -5, want: 4.00},
		{name: "NaN price is zero", price: math.NaN(), discountType: models.DiscountNone, discountValue: 0, want: 0},
		{name: "cents survive", price: 0.10, discountType: models.DiscountAmount, discountValue: 0.03, want: 0.07},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := FinalPrice(testCase.price, testCase.discountType, testCase.discountValue)
			assert.Equal(t, testCase.want, Round2(got))
		})
	}
}

func TestFinalPriceNeverNegativeAndNoneIsIdentity(t *testing.T) {
	prices := []float64{0, 0.01, 1, 2.5, 9.99, 10, 100, 12345.67}
	values := []float64{0, 0.5, 1, 3, 10, 50, 99.99, 100, 250}
	types := []models.DiscountType{models.DiscountNone, models.DiscountAmount, models.DiscountPercentage}

	for _, price := range prices {
		for _, value := range values {
			for _, discountType := range types {
				got := FinalPrice(price, discountType, value)
				assert.GreaterOrEqual(t, got, 0.0)
				if discountType == models.DiscountNone {
					assert.Equal(t, price, got)
				}
			}
		}
	}
}

func TestStoredFinalPriceRounds(t *testing.T) {
	assert.Equal(t, 6.67, StoredFinalPrice(10, models.DiscountPercentage, 33.3))
	assert.Equal(t, 0.0, StoredFinalPrice(1, models.DiscountAmount, 2))
}

type testLine struct {
	price float64
	qty   int
}

func (l testLine) UnitPrice() float64 { return l.price }
func (l testLine) Count() int         { return l.qty }

func TestTotalRoundsOnce(t *testing.T) {
	lines := []testLine{{price: 3.333, qty: 3}, {price: 0.005, qty: 1}}
	// 9.999 + 0.005 = 10.004 -> 10.00; per-line rounding would give 10.00 + 0.01.
	assert.Equal(t, 10.00, Total(lines))
	assert.Equal(t, 0.0, Total([]testLine{}))
}

func TestTotalSkipsBrokenLines(t *testing.T) {
	lines := []testLine{{price: 2.5, qty: 2}, {price: math.NaN(), qty: 1}, {price: 1, qty: 0}}
	assert.Equal(t, 5.00, Total(lines))
}

func TestLineTotalAndSameAmount(t *testing.T) {
	assert.Equal(t, 7.5, LineTotal(2.5, 3))
	assert.Equal(t, 0.0, LineTotal(2.5, 0))
	assert.True(t, SameAmount(10.004, 10.00))
	assert.False(t, SameAmount(10.01, 10.00))
	assert.False(t, SameAmount(math.NaN(), 1))
}

func TestDescribe(t *testing.T) {
	percentage := Describe(10, models.DiscountPercentage, 20)
	assert.Equal(t, "20% off", percentage.Label)
	assert.Equal(t, 8.0, percentage.FinalPrice)

	amount := Describe(10, models.DiscountAmount, 3)
	assert.Equal(t, "$3.00 off", amount.Label)
	assert.Equal(t, 7.0, amount.FinalPrice)

	none := Describe(10, models.DiscountAmount, 0)
	assert.Equal(t, models.DiscountNone, none.DiscountType)
	assert.Empty(t, none.Label)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$2.50", FormatPrice(2.5))
	assert.Equal(t, "$0.00", FormatPrice(math.Inf(1)))
}
