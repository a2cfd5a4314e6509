// Package fixtures loads external test binaries used by integration
// tests, most notably Klaus Dormann's 6502 functional test suite. The
// binary itself isn't vendored into this module; callers point at a local
// copy via path or the FUNCTIONAL_TEST_BIN environment variable, and tests
// that depend on it skip cleanly when it isn't present.
package fixtures

import (
	"fmt"
	"os"
)

// DefaultFunctionalTestPath is checked when no explicit path or
// environment override is supplied.
const DefaultFunctionalTestPath = "testdata/6502_functional_test.bin"

// FunctionalTestEnvVar names the environment variable a caller can set to
// point at a local copy of Klaus Dormann's functional test binary.
const FunctionalTestEnvVar = "FUNCTIONAL_TEST_BIN"

// LoadFunctionalTest reads the functional test binary from path, or from
// FUNCTIONAL_TEST_BIN / DefaultFunctionalTestPath if path is empty. It
// returns the raw image meant to be loaded at $0000 and run starting at
// $0400, along with the success trap address ($3469 in the reference
// build) tests should watch for.
func LoadFunctionalTest(path string) ([]byte, uint16, error) {
	if path == "" {
		if p := os.Getenv(FunctionalTestEnvVar); p != "" {
			path = p
		} else {
			path = DefaultFunctionalTestPath
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("fixtures: loading functional test binary from %q: %w", path, err)
	}
	return data, 0x3469, nil
}
