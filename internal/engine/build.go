// Where: internal/engine/build.go
// What: docker build invocation and argument assembly.
// Why: Isolate the build flow from staging and rendering.
package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/matforge/matforge/internal/meta"
	"github.com/matforge/matforge/internal/recipe"
)

// BuildRequest carries everything the docker build needs.
type BuildRequest struct {
	ContextDir string
	Dockerfile string
	Tag        string
	NoCache    bool
	Verbose    bool
	Labels     map[string]string
}

// ImageBuilder drives docker build through a CommandRunner.
type ImageBuilder struct {
	Runner CommandRunner
}

// ImageTag returns the tag for a recipe build, honoring an explicit override
// and an optional registry prefix from global config.
func ImageTag(rec recipe.Recipe, registry, override string) string {
	if override = strings.TrimSpace(override); override != "" {
		return override
	}
	tag := meta.ImagePrefix + "/matlab:" + rec.Release
	if registry = strings.TrimSpace(registry); registry != "" {
		return strings.TrimSuffix(registry, "/") + "/" + tag
	}
	return tag
}

// ImageLabels returns the OCI labels stamped onto every built image.
func ImageLabels(rec recipe.Recipe) (map[string]string, error) {
	fingerprint, err := recipe.Fingerprint(rec)
	if err != nil {
		return nil, fmt.Errorf("recipe fingerprint: %w", err)
	}
	return map[string]string{
		ManagedLabel:     "true",
		ReleaseLabel:     rec.Release,
		ProductsLabel:    strings.Join(rec.Products, " "),
		FingerprintLabel: fingerprint,
	}, nil
}

// Build runs docker build for the staged context. In verbose mode output
// streams through; otherwise combined output is captured and surfaced only
// on failure, trimmed.
func (b ImageBuilder) Build(ctx context.Context, req BuildRequest) error {
	if b.Runner == nil {
		return fmt.Errorf("command runner is nil")
	}
	if strings.TrimSpace(req.ContextDir) == "" {
		return fmt.Errorf("context dir is required")
	}
	if strings.TrimSpace(req.Tag) == "" {
		return fmt.Errorf("image tag is required")
	}

	args := buildArgs(req)
	if req.Verbose {
		return b.Runner.Run(ctx, req.ContextDir, "docker", args...)
	}
	output, err := b.Runner.RunOutput(ctx, req.ContextDir, "docker", args...)
	if err == nil {
		return nil
	}
	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return err
	}
	return fmt.Errorf("docker build failed: %w\n%s", err, trimmed)
}

func buildArgs(req BuildRequest) []string {
	args := []string{"build", "-t", req.Tag}
	if req.Dockerfile != "" {
		args = append(args, "-f", req.Dockerfile)
	}
	if req.NoCache {
		args = append(args, "--no-cache")
	}
	keys := make([]string, 0, len(req.Labels))
	for key := range req.Labels {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		args = append(args, "--label", key+"="+req.Labels[key])
	}
	if req.Verbose {
		args = append(args, "--progress", "plain")
	}
	args = append(args, ".")
	return args
}
