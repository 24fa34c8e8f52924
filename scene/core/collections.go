// ABOUTME: Copy-on-write helpers over shape and connection slices.
// ABOUTME: Every helper returns a new slice and leaves its input untouched.
package core

func indexOfShape(shapes []Shape, id int) int {
	for i, s := range shapes {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func indexOfLink(conns []Connection, from, to Endpoint) int {
	for i, c := range conns {
		if c.Matches(from, to) {
			return i
		}
	}
	return -1
}

func lastIndexOfLink(conns []Connection, from, to Endpoint) int {
	for i := len(conns) - 1; i >= 0; i-- {
		if conns[i].Matches(from, to) {
			return i
		}
	}
	return -1
}

// insertAt returns a copy of in with v at index i, clamping i to the valid range.
func insertAt[T any](in []T, i int, v T) []T {
	if i < 0 || i > len(in) {
		i = len(in)
	}
	out := make([]T, 0, len(in)+1)
	out = append(out, in[:i]...)
	out = append(out, v)
	return append(out, in[i:]...)
}

func removeAt[T any](in []T, i int) []T {
	out := make([]T, 0, len(in)-1)
	out = append(out, in[:i]...)
	return append(out, in[i+1:]...)
}

func replaceAt[T any](in []T, i int, v T) []T {
	out := make([]T, len(in))
	copy(out, in)
	out[i] = v
	return out
}
