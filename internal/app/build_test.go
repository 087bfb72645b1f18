// Where: internal/app/build_test.go
// What: Tests for the build command orchestration.
package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matforge/matforge/internal/config"
	"github.com/matforge/matforge/internal/engine"
)

func TestRunBuildHappyPath(t *testing.T) {
	isolateGlobalConfig(t)
	dir := t.TempDir()
	recipePath := writeRecipe(t, dir, "release: r2024b\n")

	builder := &fakeBuilder{}
	stager := &fakeStager{}
	var out bytes.Buffer

	code := Run([]string{"build"}, Dependencies{
		ProjectDir: dir,
		Out:        &out,
		Builder:    builder,
		Stager:     stager,
	})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (output: %s)", code, out.String())
	}

	if len(builder.requests) != 1 {
		t.Fatalf("expected one build, got %d", len(builder.requests))
	}
	req := builder.requests[0]
	if req.Tag != "matforge/matlab:r2024b" {
		t.Fatalf("unexpected tag %q", req.Tag)
	}
	if req.Labels[engine.ManagedLabel] != "true" {
		t.Fatalf("expected managed label, got %v", req.Labels)
	}
	if req.Labels[engine.ReleaseLabel] != "r2024b" {
		t.Fatalf("expected release label, got %v", req.Labels)
	}

	payload, err := os.ReadFile(req.Dockerfile)
	if err != nil {
		t.Fatalf("read staged dockerfile: %v", err)
	}
	if !strings.Contains(string(payload), "FROM mathworks/matlab-deps:r2024b") {
		t.Fatalf("staged dockerfile wrong:\n%s", payload)
	}
	if filepath.Dir(req.Dockerfile) != req.ContextDir {
		t.Fatalf("dockerfile not in context dir: %q vs %q", req.Dockerfile, req.ContextDir)
	}
	if len(stager.staged) != 1 || stager.staged[0] != req.ContextDir {
		t.Fatalf("stager not pointed at context dir: %v", stager.staged)
	}
	if !strings.Contains(out.String(), "build complete: matforge/matlab:r2024b") {
		t.Fatalf("expected completion message, got: %s", out.String())
	}

	// The recipe used is recorded for later invocations.
	if last, ok := config.LastRecipe(dir); !ok || last != recipePath {
		t.Fatalf("expected recorded recipe %q, got %q (%v)", recipePath, last, ok)
	}
}

func TestRunBuildUsesConfiguredRegistry(t *testing.T) {
	isolateGlobalConfig(t)
	dir := t.TempDir()
	writeRecipe(t, dir, "release: r2023b\n")

	var out bytes.Buffer
	if code := Run([]string{"config", "set-registry", "registry.example.com"}, Dependencies{Out: &out}); code != 0 {
		t.Fatalf("set-registry failed: %s", out.String())
	}

	builder := &fakeBuilder{}
	out.Reset()
	code := Run([]string{"build"}, Dependencies{
		ProjectDir: dir,
		Out:        &out,
		Builder:    builder,
		Stager:     &fakeStager{},
	})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (output: %s)", code, out.String())
	}
	if builder.requests[0].Tag != "registry.example.com/matforge/matlab:r2023b" {
		t.Fatalf("unexpected tag %q", builder.requests[0].Tag)
	}
}

func TestRunBuildTagOverride(t *testing.T) {
	isolateGlobalConfig(t)
	dir := t.TempDir()
	writeRecipe(t, dir, "release: r2024b\n")

	builder := &fakeBuilder{}
	var out bytes.Buffer
	code := Run([]string{"build", "--tag", "lab/matlab:custom"}, Dependencies{
		ProjectDir: dir,
		Out:        &out,
		Builder:    builder,
		Stager:     &fakeStager{},
	})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (output: %s)", code, out.String())
	}
	if builder.requests[0].Tag != "lab/matlab:custom" {
		t.Fatalf("override not honored: %q", builder.requests[0].Tag)
	}
}

func TestRunBuildRenderOnly(t *testing.T) {
	isolateGlobalConfig(t)
	dir := t.TempDir()
	writeRecipe(t, dir, "release: r2024b\n")

	builder := &fakeBuilder{}
	stager := &fakeStager{}
	var out bytes.Buffer
	code := Run([]string{"build", "--render-only"}, Dependencies{
		ProjectDir: dir,
		Out:        &out,
		Builder:    builder,
		Stager:     stager,
	})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (output: %s)", code, out.String())
	}
	if !strings.Contains(out.String(), "FROM mathworks/matlab-deps:r2024b") {
		t.Fatalf("expected dockerfile output:\n%s", out.String())
	}
	if len(builder.requests) != 0 {
		t.Fatalf("build must not run in render-only mode")
	}
	if len(stager.staged) != 0 {
		t.Fatalf("staging must not run in render-only mode")
	}
}

func TestRunBuildAppliesReleaseDefaults(t *testing.T) {
	isolateGlobalConfig(t)
	dir := t.TempDir()
	writeRecipe(t, dir, "release: r2024b\n")

	path, err := config.GlobalConfigPath()
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	cfg := config.DefaultGlobalConfig()
	cfg.Defaults = map[string]config.BuildDefaults{
		"r2024b": {Tag: "lab/matlab:pinned", NoCache: true},
	}
	if err := config.SaveGlobalConfig(path, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	builder := &fakeBuilder{}
	var out bytes.Buffer
	code := Run([]string{"build"}, Dependencies{
		ProjectDir: dir,
		Out:        &out,
		Builder:    builder,
		Stager:     &fakeStager{},
	})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (output: %s)", code, out.String())
	}
	if builder.requests[0].Tag != "lab/matlab:pinned" {
		t.Fatalf("default tag not applied: %q", builder.requests[0].Tag)
	}
	if !builder.requests[0].NoCache {
		t.Fatalf("default no-cache not applied")
	}

	// Explicit flags still win over configured defaults.
	out.Reset()
	code = Run([]string{"build", "--tag", "lab/matlab:flag"}, Dependencies{
		ProjectDir: dir,
		Out:        &out,
		Builder:    builder,
		Stager:     &fakeStager{},
	})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (output: %s)", code, out.String())
	}
	if builder.requests[1].Tag != "lab/matlab:flag" {
		t.Fatalf("flag must beat default: %q", builder.requests[1].Tag)
	}
}

func TestRunBuildBuilderFailure(t *testing.T) {
	isolateGlobalConfig(t)
	dir := t.TempDir()
	writeRecipe(t, dir, "release: r2024b\n")

	var out bytes.Buffer
	code := Run([]string{"build"}, Dependencies{
		ProjectDir: dir,
		Out:        &out,
		Builder:    &fakeBuilder{err: errors.New("docker build failed: exit status 1")},
		Stager:     &fakeStager{},
	})
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(out.String(), "docker build failed") {
		t.Fatalf("expected build failure surfaced, got: %s", out.String())
	}
}

func TestRunBuildStagerFailure(t *testing.T) {
	isolateGlobalConfig(t)
	dir := t.TempDir()
	writeRecipe(t, dir, "release: r2024b\naddons:\n  - name: convnet\n    source: https://example.com/convnet.tar.gz\n")

	builder := &fakeBuilder{}
	var out bytes.Buffer
	code := Run([]string{"build"}, Dependencies{
		ProjectDir: dir,
		Out:        &out,
		Builder:    builder,
		Stager:     &fakeStager{err: errors.New("download convnet: connection refused")},
	})
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if len(builder.requests) != 0 {
		t.Fatalf("build must not run when staging fails")
	}
}

func TestRunBuildInvalidRecipe(t *testing.T) {
	isolateGlobalConfig(t)
	dir := t.TempDir()
	writeRecipe(t, dir, "release: r2019a\n")

	var out bytes.Buffer
	code := Run([]string{"build"}, Dependencies{
		ProjectDir: dir,
		Out:        &out,
		Builder:    &fakeBuilder{},
		Stager:     &fakeStager{},
	})
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(out.String(), "unsupported release") {
		t.Fatalf("expected release validation error, got: %s", out.String())
	}
}
