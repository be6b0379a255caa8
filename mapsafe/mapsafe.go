package mapsafe

import (
	"fmt"
	"reflect"
	"strconv"
)

// Get retrieves a typed value from a map[string]any.
// If the key is missing or the type cannot be converted, it returns the default value.
// Numbers decoded from YAML or JSON may arrive as int, int64 or float64; all of
// them convert to an int or float64 default. A string default also accepts
// numbers and booleans, formatted the way a command line flag would expect.
func Get[T any](m map[string]any, key string, defaultValue T) T {
	val, ok := m[key]
	if !ok || val == nil {
		return defaultValue
	}

	switch any(defaultValue).(type) {
	case int:
		switch x := val.(type) {
		case int:
			return any(x).(T)
		case int64:
			return any(int(x)).(T)
		case float64:
			return any(int(x)).(T)
		}
	case float64:
		switch x := val.(type) {
		case float64:
			return any(x).(T)
		case int:
			return any(float64(x)).(T)
		case int64:
			return any(float64(x)).(T)
		}
	case string:
		switch x := val.(type) {
		case string:
			return any(x).(T)
		case int, int64:
			return any(fmt.Sprint(x)).(T)
		case float64:
			return any(strconv.FormatFloat(x, 'f', -1, 64)).(T)
		case bool:
			return any(strconv.FormatBool(x)).(T)
		}
	case bool:
		if b, ok := val.(bool); ok {
			return any(b).(T)
		}
	default:
		if v2, ok := val.(T); ok {
			return v2
		}
	}

	return defaultValue
}

// Lookup returns the value of key from the first map that holds a
// convertible one, or defaultValue when none does.
func Lookup[T any](key string, defaultValue T, maps ...map[string]any) T {
	for _, m := range maps {
		if _, ok := m[key]; !ok {
			continue
		}
		var zero T
		if v := Get(m, key, zero); !isZero(v) {
			return v
		}
	}
	return defaultValue
}

func isZero[T any](v T) bool {
	return reflect.ValueOf(&v).Elem().IsZero()
}
