package assert

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

// Equal verifies equality of two objects.
func Equal[T any](t *testing.T, a, b T) {
	t.Helper()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("%v != %v", a, b)
	}
}

// InDelta verifies two floats differ by at most delta.
func InDelta(t *testing.T, expected, actual, delta float64) {
	t.Helper()
	if math.Abs(expected-actual) > delta {
		t.Fatalf("%v is not within %v of %v", actual, delta, expected)
	}
}

// NoError fails the test if err is non-nil.
func NoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// ErrorIs checks that err matches target in its chain.
func ErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error %v is not %v", err, target)
	}
}

// ErrorContains checks whether the given error contains the specified string.
func ErrorContains(t *testing.T, err error, str string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Error is nil")
	} else if !strings.Contains(err.Error(), str) {
		t.Fatalf("Error %q does not contain string: %s", err, str)
	}
}
