package runner

import (
	"os"
	"strings"
)

// rewriteEnv is the conventional toggle switching every unit in a run from
// compare mode to rewrite mode.
const rewriteEnv = "REWRITE_SPECS"

// Options configure a Runner.
type Options struct {
	// Rewrite patches expected-output blocks in place instead of
	// comparing against them.
	Rewrite bool

	// Parallel lets TestSpecs run documents as parallel subtests.
	// Examples within one document always run in document order.
	Parallel bool
}

// RewriteEnabled reports whether the REWRITE_SPECS environment variable
// requests rewrite mode. Unset, empty, "false", "off", and "0" mean
// compare mode; any other value enables rewriting.
func RewriteEnabled() bool {
	switch strings.ToLower(os.Getenv(rewriteEnv)) {
	case "", "false", "off", "0":
		return false
	default:
		return true
	}
}
