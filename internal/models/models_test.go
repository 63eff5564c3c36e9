package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFlexFloatJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		isNaN bool
	}{
		{name: "number", input: `2.5`, want: 2.5},
		{name: "numeric string", input: `"2.50"`, want: 2.5},
		{name: "empty string", input: `""`, want: 0},
		{name: "null", input: `null`, want: 0},
		{name: "garbage string", input: `"abc"`, isNaN: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			var value FlexFloat
			require.NoError(t, json.Unmarshal([]byte(testCase.input), &value))
			if testCase.isNaN {
				assert.True(t, math.IsNaN(value.Float64()))
				return
			}
			assert.Equal(t, testCase.want, value.Float64())
		})
	}
}

func TestFlexFloatRejectsObjects(t *testing.T) {
	var value FlexFloat
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &value))
}

func TestFlexFloatBSONLegacyString(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"price": "4.25", "discount": nil, "count": int32(3)})
	require.NoError(t, err)

	var doc struct {
		Price    FlexFloat `bson:"price"`
		Discount FlexFloat `bson:"discount"`
		Count    FlexFloat `bson:"count"`
	}
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, 4.25, doc.Price.Float64())
	assert.Equal(t, 0.0, doc.Discount.Float64())
	assert.Equal(t, 3.0, doc.Count.Float64())
}

func TestParseDiscountType(t *testing.T) {
	for input, want := range map[string]DiscountType{
		"":            DiscountNone,
		"none":        DiscountNone,
		"Amount":      DiscountAmount,
		" percentage": DiscountPercentage,
	} {
		got, ok := ParseDiscountType(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}
	_, ok := ParseDiscountType("bogo")
	assert.False(t, ok)
}

func TestOrderAndSocialStatusesAreSeparateVocabularies(t *testing.T) {
	_, ok := ParseOrderStatus("partial")
	assert.False(t, ok, "partial belongs to social posts only")

	_, ok = ParseSocialPostStatus("preparing")
	assert.False(t, ok, "preparing belongs to orders only")

	orderStatus, ok := ParseOrderStatus("completed")
	require.True(t, ok)
	socialStatus, ok := ParseSocialPostStatus("completed")
	require.True(t, ok)
	assert.Equal(t, string(orderStatus), string(socialStatus))
}

func TestParsePaymentMethodAliases(t *testing.T) {
	method, ok := ParsePaymentMethod("payAtRestaurant")
	require.True(t, ok)
	assert.Equal(t, PaymentAtRestaurant, method)

	method, ok = ParsePaymentMethod("onlinePayment")
	require.True(t, ok)
	assert.Equal(t, PaymentOnline, method)

	_, ok = ParsePaymentMethod("crypto")
	assert.False(t, ok)
}
