package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToFloat converts various types to float64, returning def when the value
// cannot be interpreted numerically. Slicer settings frequently encode
// numbers as strings, so string parsing is the common path.
func ToFloat(val any, def float64) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return def
		}
		return f
	case []byte:
		return ToFloat(string(v), def)
	default:
		return def
	}
}

// ToInt converts various types to int, returning def on failure.
// Values like "0.4" are accepted by going through float parsing first,
// matching how slicers serialize integral settings.
func ToInt(val any, def int) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return def
		}
		return int(f)
	case []byte:
		return ToInt(string(v), def)
	default:
		return def
	}
}

// ToString converts various types to string.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool converts various types to bool.
// Slicer settings encode booleans as "1"/"0" or "true"/"false".
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int32, int64:
		return ToInt(v, 0) == 1
	case float64, float32:
		return ToFloat(v, 0) == 1
	case string:
		return v == "1" || strings.EqualFold(v, "true")
	case []byte:
		return ToBool(string(v))
	default:
		return false
	}
}
