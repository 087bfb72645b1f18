// Where: internal/recipe/releases.go
// What: Supported release table and base image resolution.
// Why: Releases are enum-like; every downstream step keys off this table.
package recipe

import (
	"fmt"
	"sort"
	"strings"
)

const depsImageRepo = "mathworks/matlab-deps"

// supportedReleases maps the normalized release tag to the tag of the
// dependency base image published for it.
var supportedReleases = map[string]string{
	"r2022b": "r2022b",
	"r2023a": "r2023a",
	"r2023b": "r2023b",
	"r2024a": "r2024a",
	"r2024b": "r2024b",
	"r2025a": "r2025a",
}

// LatestRelease is the default release offered by init and prompts.
const LatestRelease = "r2025a"

// NormalizeRelease lowercases and trims a release tag so that "R2024b" and
// "r2024b" refer to the same entry.
func NormalizeRelease(release string) string {
	return strings.ToLower(strings.TrimSpace(release))
}

// SupportedRelease reports whether the given release has a known base image.
func SupportedRelease(release string) bool {
	_, ok := supportedReleases[NormalizeRelease(release)]
	return ok
}

// SupportedReleases returns the supported release tags, newest first.
func SupportedReleases() []string {
	releases := make([]string, 0, len(supportedReleases))
	for release := range supportedReleases {
		releases = append(releases, release)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(releases)))
	return releases
}

// BaseImageFor resolves the dependency base image for a release, honoring an
// explicit override from the recipe.
func BaseImageFor(release, override string) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		return override, nil
	}
	tag, ok := supportedReleases[NormalizeRelease(release)]
	if !ok {
		return "", fmt.Errorf("unsupported release %q (supported: %s)",
			release, strings.Join(SupportedReleases(), ", "))
	}
	return depsImageRepo + ":" + tag, nil
}

// InstallerRelease converts a normalized release tag to the form the installer
// expects, e.g. "r2024b" becomes "R2024b".
func InstallerRelease(release string) string {
	release = NormalizeRelease(release)
	if release == "" {
		return ""
	}
	return strings.ToUpper(release[:1]) + release[1:]
}
