// Package testutil provides shared test utilities and fixtures.
//
// This package centralises numeric assertions used across the pipeline
// tests so tolerances are applied the same way everywhere.
package testutil

import (
	"errors"
	"math"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertErrorIs fails the test unless errors.Is(err, target).
func AssertErrorIs(t testing.TB, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

// AssertClose fails the test when got and want differ by more than
// rel·|want| + abs, element by element.
func AssertClose(t testing.TB, want, got []float64, rel, abs float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if d := math.Abs(got[i] - want[i]); d > rel*math.Abs(want[i])+abs {
			t.Errorf("[%d] = %.17g, want %.17g (diff %.3g)", i, got[i], want[i], d)
		}
	}
}

// AssertNonNegative fails the test if any value is negative or NaN.
func AssertNonNegative(t testing.TB, vals []float64) {
	t.Helper()
	for i, v := range vals {
		if math.IsNaN(v) || v < 0 {
			t.Errorf("[%d] = %v, want >= 0", i, v)
		}
	}
}
