package schema

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"time"

	"github.com/spf13/cast"
)

// TypeOf classifies a single sample value. Nil yields TypeUndefined.
func TypeOf(v any) DataType {
	switch val := v.(type) {
	case nil:
		return TypeUndefined
	case bool:
		return TypeBoolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeNumber
	case float32:
		return floatType(float64(val))
	case float64:
		return floatType(val)
	case json.Number:
		if _, err := val.Int64(); err == nil {
			return TypeNumber
		}
		f, err := val.Float64()
		if err != nil {
			return TypeString
		}
		return floatType(f)
	case *big.Int:
		return TypeBigInt
	case time.Time, *time.Time:
		return TypeDate
	case string:
		if IsDateString(val) {
			return TypeDate
		}
		return TypeString
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Func:
		return TypeFunction
	case reflect.Chan, reflect.UnsafePointer:
		return TypeUnknown
	default:
		return TypeObject
	}
}

func floatType(f float64) DataType {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return TypeFloat
	}
	if f == math.Trunc(f) {
		return TypeNumber
	}
	return TypeFloat
}

// IsDateString reports whether s parses as a date. This is a heuristic:
// any layout cast understands counts, so some identifiers may be taken for dates.
func IsDateString(s string) bool {
	if s == "" {
		return false
	}
	_, err := cast.StringToDate(s)
	return err == nil
}

// isFlat reports whether v is a primitive row value (no nested maps or slices).
func isFlat(v any) bool {
	if v == nil {
		return true
	}
	switch v.(type) {
	case string, bool, json.Number, time.Time, *time.Time, *big.Int, []byte:
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return false
	}
	return true
}
