// Where: internal/engine/verify.go
// What: Post-build verification of a provisioned image.
// Why: A build only counts if the installed executable reports the release.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/matforge/matforge/internal/recipe"
)

var releasePattern = regexp.MustCompile(`20[0-9]{2}[ab]`)

// Verifier runs a built image and checks the reported release.
type Verifier struct {
	Runner CommandRunner
}

// Verify starts a throwaway container from the image and asks the installed
// executable for its release. It fails when the report does not match the
// requested release.
func (v Verifier) Verify(ctx context.Context, imageTag, release string) error {
	if v.Runner == nil {
		return fmt.Errorf("command runner is nil")
	}
	release = recipe.NormalizeRelease(release)
	output, err := v.Runner.RunOutput(ctx, "", "docker",
		"run", "--rm", "--entrypoint", "matlab", imageTag,
		"-batch", "disp(version('-release'))")
	if err != nil {
		trimmed := strings.TrimSpace(string(output))
		if trimmed != "" {
			return fmt.Errorf("verify run failed: %w\n%s", err, trimmed)
		}
		return fmt.Errorf("verify run failed: %w", err)
	}

	reported := releasePattern.FindString(strings.ToLower(string(output)))
	if reported == "" {
		return fmt.Errorf("image %s did not report a release (output: %q)",
			imageTag, strings.TrimSpace(string(output)))
	}
	if "r"+reported != release {
		return fmt.Errorf("image %s reports release r%s, requested %s", imageTag, reported, release)
	}
	return nil
}
