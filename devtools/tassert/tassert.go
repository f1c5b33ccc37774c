// Package tassert provides small fatal/non-fatal assertion helpers shared
// across this module's test suites, adapted from the teacher's
// devtools/tutils/tassert package (only consumed here, never retrieved in
// the pack, so this reconstructs the same CheckFatal/Errorf call shape its
// test files exercise in downloader/utils_test.go and xaction/xreg's own
// test file).
/*
 * Copyright (c) 2024, Resource Sniffer Core authors. All rights reserved.
 */
package tassert

import "testing"

// Errorf calls t.Errorf with the formatted message if cond is false,
// continuing the test (non-fatal), mirroring the teacher's own Errorf.
func Errorf(t *testing.T, cond bool, format string, args ...interface{}) {
	t.Helper()
	if !cond {
		t.Errorf(format, args...)
	}
}

// Fatalf calls t.Fatalf with the formatted message if cond is false,
// aborting the test immediately.
func Fatalf(t *testing.T, cond bool, format string, args ...interface{}) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

// CheckFatal fails the test immediately if err is non-nil, the teacher's
// most common guard ahead of using a fallible setup helper's result.
func CheckFatal(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// CheckError is the non-fatal counterpart to CheckFatal, used where a test
// wants to keep asserting after reporting the failure.
func CheckError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
