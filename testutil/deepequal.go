package testutil

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// DeepEqual reports whether a and b are equal, treating nil and empty
// slices and maps alike.
func DeepEqual(a, b interface{}) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}

// Diff returns a human-readable report of the differences between a and b.
func Diff(a, b interface{}) string {
	return cmp.Diff(a, b, cmpopts.EquateEmpty())
}
