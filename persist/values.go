package persist

import (
	"fmt"
	"reflect"
)

// addNumeric adds delta to current, widening to int64 or float64. A nil
// current counts from zero.
func addNumeric(current, delta any) (any, error) {
	if current == nil {
		current = int64(0)
	}
	cf, cIsFloat, err := widen(current)
	if err != nil {
		return nil, err
	}
	df, dIsFloat, err := widen(delta)
	if err != nil {
		return nil, err
	}
	if cIsFloat || dIsFloat {
		return asFloat(cf) + asFloat(df), nil
	}
	return cf.(int64) + df.(int64), nil
}

// widen converts a numeric value to int64 or float64.
func widen(v any) (any, bool, error) {
	switch n := v.(type) {
	case int:
		return int64(n), false, nil
	case int32:
		return int64(n), false, nil
	case int64:
		return n, false, nil
	case float32:
		return float64(n), true, nil
	case float64:
		return n, true, nil
	default:
		return nil, false, fmt.Errorf("non-numeric value %T", v)
	}
}

func asFloat(v any) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return float64(v.(int64))
}

// toInt64 converts an integer-valued field to int64; nil counts as zero.
func toInt64(v any) (int64, error) {
	if v == nil {
		return 0, nil
	}
	widened, isFloat, err := widen(v)
	if err != nil || isFloat {
		return 0, fmt.Errorf("non-integer value %T", v)
	}
	return widened.(int64), nil
}

// toList coerces a field value to a list: nil is empty, a slice keeps its
// elements, any other value is a single-element list.
func toList(v any) []any {
	if v == nil {
		return nil
	}
	if list, ok := v.([]any); ok {
		out := make([]any, len(list))
		copy(out, list)
		return out
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{v}
}

// containsValue reports whether list holds an element deeply equal to v.
func containsValue(list []any, v any) bool {
	for _, e := range list {
		if reflect.DeepEqual(e, v) {
			return true
		}
	}
	return false
}

// removeEqual returns list without any element deeply equal to one of values.
func removeEqual(list []any, values []any) []any {
	out := make([]any, 0, len(list))
	for _, e := range list {
		if !containsValue(values, e) {
			out = append(out, e)
		}
	}
	return out
}

// insertAt inserts values into list at position, clamped to the list bounds.
func insertAt(list []any, position int, values []any) []any {
	if position > len(list) {
		position = len(list)
	}
	out := make([]any, 0, len(list)+len(values))
	out = append(out, list[:position]...)
	out = append(out, values...)
	out = append(out, list[position:]...)
	return out
}
