package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertLogContains checks captured log output for every substring. The full
// log is printed when CONTINGENT_TEST_LOGS=true.
func AssertLogContains(t *testing.T, logs *SafeBuffer, substrings ...string) {
	t.Helper()
	out := logs.String()
	for _, s := range substrings {
		assert.Contains(t, out, s)
	}
	if os.Getenv("CONTINGENT_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), out)
	}
}
