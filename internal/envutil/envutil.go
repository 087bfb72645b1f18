// Package envutil provides helper functions for host environment variables.
package envutil

import (
	"os"

	"github.com/matforge/matforge/internal/meta"
)

// HostEnvKey constructs a host-level environment variable name by prefixing
// the given suffix with the project prefix.
// Example: HostEnvKey("CONFIG_PATH") returns "MATFORGE_CONFIG_PATH".
func HostEnvKey(suffix string) string {
	return meta.EnvPrefix + "_" + suffix
}

// GetHostEnv retrieves a host-level environment variable by suffix.
func GetHostEnv(suffix string) string {
	return os.Getenv(HostEnvKey(suffix))
}

// LookupHostEnv retrieves a host-level environment variable and reports
// whether it was set at all.
func LookupHostEnv(suffix string) (string, bool) {
	return os.LookupEnv(HostEnvKey(suffix))
}
