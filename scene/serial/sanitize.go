// ABOUTME: Storage-safe tree transform: nested arrays become keyed objects and functions are dropped.
// ABOUTME: Reconstruct is the exact inverse of Sanitize for every tree Sanitize produces.
package serial

import (
	"reflect"
	"sort"
	"strconv"
)

const (
	// NestedArrayMarker flags an object that stands in for a nested array.
	NestedArrayMarker = "__isNestedArray"
	// NestedLengthKey holds the element count of a flattened nested array.
	NestedLengthKey = "__length"
)

// Sanitize returns a copy of v that a document store accepts. Nil values
// become null, function values are dropped from objects and arrays, and
// every array that directly contains an array is replaced by an object
// keyed "0".."n-1" carrying NestedArrayMarker and NestedLengthKey. The
// transform recurses into every element.
func Sanitize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if isFunc(val) {
				continue
			}
			out[k] = Sanitize(val)
		}
		return out
	case []any:
		elems := make([]any, 0, len(t))
		nested := false
		for _, val := range t {
			if isFunc(val) {
				continue
			}
			if _, ok := val.([]any); ok {
				nested = true
			}
			elems = append(elems, Sanitize(val))
		}
		if !nested {
			return elems
		}
		obj := make(map[string]any, len(elems)+2)
		for i, e := range elems {
			obj[strconv.Itoa(i)] = e
		}
		obj[NestedArrayMarker] = true
		obj[NestedLengthKey] = float64(len(elems))
		return obj
	default:
		return v
	}
}

// Reconstruct reverses Sanitize.
func Reconstruct(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if n, ok := nestedLength(t); ok {
			out := make([]any, n)
			for i := range out {
				out[i] = Reconstruct(t[strconv.Itoa(i)])
			}
			return out
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Reconstruct(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Reconstruct(val)
		}
		return out
	default:
		return v
	}
}

func nestedLength(m map[string]any) (int, bool) {
	if flag, _ := m[NestedArrayMarker].(bool); !flag {
		return 0, false
	}
	switch n := m[NestedLengthKey].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func isFunc(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

// NestedArrayPaths lists the dotted path of every array in v that directly
// contains another array. An empty result means v is storable as is.
func NestedArrayPaths(v any) []string {
	var out []string
	walkNested(v, "", &out)
	sort.Strings(out)
	return out
}

func walkNested(v any, path string, out *[]string) {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			walkNested(val, joinPath(path, k), out)
		}
	case []any:
		for _, val := range t {
			if _, ok := val.([]any); ok {
				*out = append(*out, orRoot(path))
				break
			}
		}
		for i, val := range t {
			walkNested(val, joinPath(path, strconv.Itoa(i)), out)
		}
	}
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

func orRoot(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}
