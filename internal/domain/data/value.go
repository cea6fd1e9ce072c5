package data

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// typeRank orders values of different kinds so that Compare is total:
// null < bool < number < string < time < anything else.
func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case float64:
		return 2
	case string:
		return 3
	case time.Time:
		return 4
	default:
		return 5
	}
}

// Compare compares two normalized values and returns:
// -1 if a < b
//
//	0 if a == b
//
// +1 if a > b
//
// Null sorts first. Values of different kinds are ordered by kind.
func Compare(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch av := a.(type) {
	case nil:
		return 0
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1 // false < true
		default:
			return 1
		}
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		case math.IsNaN(av) && !math.IsNaN(bv):
			return -1
		case !math.IsNaN(av) && math.IsNaN(bv):
			return 1
		default:
			return 0
		}
	case string:
		return strings.Compare(av, b.(string))
	case time.Time:
		return av.Compare(b.(time.Time))
	default:
		return strings.Compare(fmt.Sprintf("%T:%v", a, a), fmt.Sprintf("%T:%v", b, b))
	}
}

// Equal reports whether two normalized values are equal. Two nulls are equal.
func Equal(a, b any) bool {
	return Compare(a, b) == 0
}

// CompareTuples compares two tuples lexicographically over the shorter
// length.
func CompareTuples(a, b []any) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// HasNull reports whether any element of the tuple is null.
func HasNull(values []any) bool {
	for _, v := range values {
		if v == nil {
			return true
		}
	}
	return false
}

// Key encodes a tuple of normalized values into a string usable as a
// hash-map key. Distinct tuples always produce distinct keys.
func Key(values ...any) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		switch val := v.(type) {
		case nil:
			b.WriteString("_")
		case bool:
			if val {
				b.WriteString("b1")
			} else {
				b.WriteString("b0")
			}
		case float64:
			if val == 0 {
				val = 0 // -0 and 0 compare equal
			}
			b.WriteString("n")
			b.WriteString(strconv.FormatFloat(val, 'g', -1, 64))
		case string:
			b.WriteString("s")
			b.WriteString(strconv.Itoa(len(val)))
			b.WriteByte(':')
			b.WriteString(val)
		case time.Time:
			b.WriteString("t")
			b.WriteString(strconv.FormatInt(val.UnixNano(), 10))
		default:
			s := fmt.Sprintf("%T:%#v", v, v) // Use %#v for better type differentiation
			b.WriteString("x")
			b.WriteString(strconv.Itoa(len(s)))
			b.WriteByte(':')
			b.WriteString(s)
		}
	}
	return b.String()
}

// ToFloat64 converts a normalized numeric value to float64
func ToFloat64(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

// Format renders a value for use as a column name or display cell
func Format(v any) string {
	switch val := v.(type) {
	case nil:
		return "NA"
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}

// Distance returns the absolute distance between two values of the same
// orderable kind: numeric difference for numbers, seconds for timestamps.
func Distance(a, b any) (float64, bool) {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return 0, false
		}
		return math.Abs(av - bv), true
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return math.Abs(av.Sub(bv).Seconds()), true
	}
	return 0, false
}
