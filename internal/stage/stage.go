// Where: internal/stage/stage.go
// What: Build context staging.
// Why: Fetch everything up front so the Dockerfile only COPYs local files.
package stage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matforge/matforge/internal/envutil"
	"github.com/matforge/matforge/internal/meta"
	"github.com/matforge/matforge/internal/recipe"
)

// HostSuffixStagingDir overrides the staging root directory when set.
const HostSuffixStagingDir = "STAGING_DIR"

// Stager materializes build context directories for recipes.
type Stager struct {
	Fetchers map[string]Fetcher
}

// NewStager returns a stager with the default fetcher set: local paths,
// http(s) downloads, and s3 objects.
func NewStager(s3 Fetcher) Stager {
	fetchers := map[string]Fetcher{
		"":      LocalFetcher{},
		"http":  HTTPFetcher{},
		"https": HTTPFetcher{},
	}
	if s3 != nil {
		fetchers["s3"] = s3
	}
	return Stager{Fetchers: fetchers}
}

// ContextDir returns the build context directory for the recipe under the
// project, keyed by the recipe fingerprint so concurrent recipes do not
// trample each other.
func ContextDir(projectDir string, rec recipe.Recipe) (string, error) {
	root := strings.TrimSpace(envutil.GetHostEnv(HostSuffixStagingDir))
	if root == "" {
		root = filepath.Join(projectDir, meta.StagingDir)
	}
	fingerprint, err := recipe.Fingerprint(rec)
	if err != nil {
		return "", fmt.Errorf("recipe fingerprint: %w", err)
	}
	dir := filepath.Join(root, rec.Release+"-"+fingerprint)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	return dir, nil
}

// Stage fetches every addon archive into dir and returns addon name to
// archive filename. Any fetch failure aborts staging; there are no retries.
func (s Stager) Stage(ctx context.Context, rec recipe.Recipe, dir string) (map[string]string, error) {
	archives := make(map[string]string, len(rec.Addons))
	for _, addon := range rec.Addons {
		scheme := sourceScheme(addon.Source)
		fetcher, ok := s.Fetchers[scheme]
		if !ok {
			return nil, fmt.Errorf("addon %s: no fetcher for scheme %q", addon.Name, scheme)
		}
		archive := ArchiveName(addon)
		if err := fetcher.Fetch(ctx, addon.Source, filepath.Join(dir, archive)); err != nil {
			return nil, fmt.Errorf("addon %s: %w", addon.Name, err)
		}
		archives[addon.Name] = archive
	}
	return archives, nil
}

// ArchiveName derives the build-context filename for an addon archive. The
// addon name prefixes the source basename so two addons whose sources share a
// basename stage to distinct files.
func ArchiveName(addon recipe.Addon) string {
	base := addon.Source
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	return addon.Name + "-" + base
}

func sourceScheme(source string) string {
	scheme, _, found := strings.Cut(source, "://")
	if !found {
		return ""
	}
	return scheme
}

// WriteDockerfile places the rendered Dockerfile into the context directory.
func WriteDockerfile(dir, content string) (string, error) {
	path := filepath.Join(dir, "Dockerfile")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write dockerfile: %w", err)
	}
	return path, nil
}
