package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// FlexFloat decodes numbers that older admin and widget revisions sent or
// stored as strings ("2.50"), as null, or as integers. Unparseable input
// decodes to NaN so the pricing rules can fall back to the base price.
type FlexFloat float64

func (f FlexFloat) Float64() float64 { return float64(f) }

// UnmarshalJSON accepts a JSON number, a numeric string, an empty string or
// null.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = 0
		return nil
	}
	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*f = FlexFloat(parseLenientFloat(raw))
		return nil
	}
	var value float64
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return fmt.Errorf("cannot decode %s into FlexFloat", string(trimmed))
	}
	*f = FlexFloat(value)
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	value := float64(f)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(value)
}

// UnmarshalBSONValue accepts double, int32, int64, string and null values so
// legacy documents decode without failing the whole read.
func (f *FlexFloat) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*f = 0
		return nil
	case bsontype.Double:
		var value float64
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*f = FlexFloat(value)
		return nil
	case bsontype.Int32:
		var value int32
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*f = FlexFloat(value)
		return nil
	case bsontype.Int64:
		var value int64
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*f = FlexFloat(value)
		return nil
	case bsontype.String:
		var value string
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*f = FlexFloat(parseLenientFloat(value))
		return nil
	default:
		return fmt.Errorf("cannot decode %s into FlexFloat", t)
	}
}

// MarshalBSONValue always stores a double, keeping new writes consistent
// even when legacy documents used a string value.
func (f FlexFloat) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(float64(f))
}

func parseLenientFloat(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return math.NaN()
	}
	return value
}
