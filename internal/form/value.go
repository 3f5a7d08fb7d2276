package form

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Stringify converts a field value to the form sent on the wire.
// nil becomes the empty string. Slices and arrays of any element type are
// joined with commas, except []byte which is sent as text.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case []byte:
		return string(val)
	case []string:
		return strings.Join(val, ",")
	case float64:
		return formatFloat(val, 64)
	case float32:
		return formatFloat(float64(val), 32)
	case time.Time:
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	default:
		rv := reflect.ValueOf(val)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			return joinElems(rv)
		}
		return fmt.Sprint(val)
	}
}

func joinElems(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = Stringify(rv.Index(i).Interface())
	}
	return strings.Join(parts, ",")
}

// IsBlank reports whether v is nil or stringifies to whitespace only.
func IsBlank(v any) bool {
	return strings.TrimSpace(Stringify(v)) == ""
}

// formatFloat prints whole numbers without an exponent so that JSON numbers
// such as 1234567 stay "1234567" on the wire.
func formatFloat(f float64, bitSize int) string {
	if math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}
