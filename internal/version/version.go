// Where: internal/version/version.go
// What: Version information retrieval.
// Why: Report the release tag when set, otherwise the VCS revision.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is overridden at release time via -ldflags.
var Version = ""

// GetVersion returns the release tag when one was linked in, otherwise the
// short VCS revision from build info, otherwise "dev".
func GetVersion() string {
	if Version != "" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}

	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			if setting.Value == "true" {
				modified = true
			}
		}
	}

	if revision == "" {
		return "dev"
	}
	if modified {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}
