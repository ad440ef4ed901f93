package dataset

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// DateLayout is the layout used to render and parse calendar dates
const DateLayout = "2006-01-02"

// Kind is the inferred type of a column
type Kind string

const (
	KindEmpty  Kind = "EMPTY"
	KindText   Kind = "TEXT"
	KindNumber Kind = "NUMBER"
	KindDate   Kind = "DATE"
	KindMixed  Kind = "MIXED"
)

// IsMissing reports whether v is a missing cell
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	}
	return false
}

// normalize converts supported Go values into the cell representation
func normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil, string, float64, time.Time:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return nil, fmt.Errorf("unsupported cell type %T", v)
	}
}

func kindOf(v any) Kind {
	switch v.(type) {
	case string:
		return KindText
	case float64:
		return KindNumber
	case time.Time:
		return KindDate
	}
	return KindMixed
}

// FormatValue renders a cell as text
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return "NaN"
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		h, m, s := x.Clock()
		if h == 0 && m == 0 && s == 0 && x.Nanosecond() == 0 {
			return x.Format(DateLayout)
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
