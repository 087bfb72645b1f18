// Where: internal/license/license.go
// What: Network license server value handling.
// Why: The port@host string must survive byte-for-byte into the image env.
package license

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// EnvVar is the runtime variable the installed product reads to locate
	// its license manager.
	EnvVar = "MLM_LICENSE_FILE"

	// Usage-tracking variables written alongside the license configuration.
	// Removing them from a derived image opts the image out.
	TelemetryEnableVar = "MW_DDUX_FORCE_ENABLE"
	TelemetryTagsVar   = "MW_CONTEXT_TAGS"
)

// Server is a parsed port@host license manager address.
type Server struct {
	Port int
	Host string

	raw string
}

// ParseServer validates a port@host license server address. The raw input is
// preserved so callers can emit it unchanged.
func ParseServer(value string) (Server, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Server{}, fmt.Errorf("license server is empty")
	}
	portPart, hostPart, found := strings.Cut(trimmed, "@")
	if !found {
		return Server{}, fmt.Errorf("license server %q: expected port@host", value)
	}
	port, err := strconv.Atoi(portPart)
	if err != nil || port <= 0 || port > 65535 {
		return Server{}, fmt.Errorf("license server %q: invalid port %q", value, portPart)
	}
	if strings.TrimSpace(hostPart) == "" || strings.ContainsAny(hostPart, " \t@") {
		return Server{}, fmt.Errorf("license server %q: invalid host %q", value, hostPart)
	}
	return Server{Port: port, Host: hostPart, raw: trimmed}, nil
}

// String returns the address exactly as it was supplied.
func (s Server) String() string {
	return s.raw
}
