package kumiai

import (
	"iter"
	"slices"
)

// Number is the constraint of the Sum combinator.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Sum adds every result.
func Sum[R Number](results iter.Seq[R]) R {
	var total R
	for r := range results {
		total += r
	}
	return total
}

// BoolOr reports whether any responder returned true. It stops at the first
// true result.
func BoolOr(results iter.Seq[bool]) bool {
	for r := range results {
		if r {
			return true
		}
	}
	return false
}

// BoolAnd reports whether every responder returned true. It stops at the
// first false result.
func BoolAnd(results iter.Seq[bool]) bool {
	for r := range results {
		if !r {
			return false
		}
	}
	return true
}

// Collect returns every result in dispatch order.
func Collect[R any](results iter.Seq[R]) []R {
	return slices.Collect(results)
}

// Count invokes every responder and returns how many responded.
func Count[R any](results iter.Seq[R]) int {
	n := 0
	for range results {
		n++
	}
	return n
}

// Last returns the result of the last responder, the lowest bidder.
func Last[R any](results iter.Seq[R]) R {
	var last R
	for r := range results {
		last = r
	}
	return last
}
