package testkit

import "testing"

// Swap replaces a package-level seam (a function or value variable) for the
// duration of the test and restores it on cleanup. Tests that swap shared seams
// must not run in parallel with each other
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}
