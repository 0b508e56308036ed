package reactive

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined is returned when reading a key that was never declared or set.
// It formats as "undefined".
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined value.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// Equal reports whether a and b are the same value.
//
// Values of different dynamic types are never equal. Maps, slices, funcs,
// channels and pointers compare by reference. Other comparable values
// compare with ==.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	switch ta.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		if ta.Kind() == reflect.Slice && va.Len() != vb.Len() {
			return false
		}
		return va.Pointer() == vb.Pointer()
	}

	if !ta.Comparable() {
		return false
	}
	// Structs and arrays can still hold uncomparable interface values.
	defer func() { _ = recover() }()
	return a == b
}

// Format renders a data value as view text.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case undefined:
		return "undefined"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}
