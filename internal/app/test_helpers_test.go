// Where: internal/app/test_helpers_test.go
// What: Shared fakes for app command tests.
package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/docker/api/types/image"
	"github.com/matforge/matforge/internal/config"
	"github.com/matforge/matforge/internal/engine"
	"github.com/matforge/matforge/internal/envutil"
	"github.com/matforge/matforge/internal/recipe"
)

func isolateGlobalConfig(t *testing.T) {
	t.Helper()
	t.Setenv(envutil.HostEnvKey(config.HostSuffixConfigHome), t.TempDir())
	t.Setenv(envutil.HostEnvKey(config.HostSuffixConfigPath), "")
}

func writeRecipe(t *testing.T, dir, payload string) string {
	t.Helper()
	path := filepath.Join(dir, "matforge.yaml")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write recipe: %v", err)
	}
	return path
}

type fakeBuilder struct {
	requests []engine.BuildRequest
	err      error
}

func (b *fakeBuilder) Build(_ context.Context, req engine.BuildRequest) error {
	b.requests = append(b.requests, req)
	return b.err
}

type fakeStager struct {
	archives map[string]string
	err      error
	staged   []string
}

func (s *fakeStager) Stage(_ context.Context, rec recipe.Recipe, dir string) (map[string]string, error) {
	s.staged = append(s.staged, dir)
	if s.err != nil {
		return nil, s.err
	}
	if s.archives == nil {
		return map[string]string{}, nil
	}
	return s.archives, nil
}

type fakeVerifier struct {
	tags     []string
	releases []string
	err      error
}

func (v *fakeVerifier) Verify(_ context.Context, imageTag, release string) error {
	v.tags = append(v.tags, imageTag)
	v.releases = append(v.releases, release)
	return v.err
}

type fakePrompter struct {
	selection string
	confirm   bool
	err       error
}

func (p fakePrompter) Select(_ string, _ []string) (string, error) {
	return p.selection, p.err
}

func (p fakePrompter) Confirm(_ string) (bool, error) {
	return p.confirm, p.err
}

type fakeDocker struct {
	images    []image.Summary
	removed   []string
	listErr   error
	removeErr error
}

func (d *fakeDocker) ImageList(_ context.Context, _ image.ListOptions) ([]image.Summary, error) {
	return d.images, d.listErr
}

func (d *fakeDocker) ImageRemove(_ context.Context, imageID string, _ image.RemoveOptions) ([]image.DeleteResponse, error) {
	if d.removeErr != nil {
		return nil, d.removeErr
	}
	d.removed = append(d.removed, imageID)
	return []image.DeleteResponse{{Deleted: imageID}}, nil
}
