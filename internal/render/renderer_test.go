// Where: internal/render/renderer_test.go
// What: Tests for Dockerfile rendering.
// Why: The installer guard and env wiring are the contract of this tool.
package render

import (
	"strings"
	"testing"

	"github.com/matforge/matforge/internal/license"
	"github.com/matforge/matforge/internal/recipe"
)

func baseRecipe(t *testing.T, payload string) recipe.Recipe {
	t.Helper()
	rec, err := recipe.Parse([]byte(payload))
	if err != nil {
		t.Fatalf("parse recipe: %v", err)
	}
	return rec
}

func TestDockerfileBasic(t *testing.T) {
	rec := baseRecipe(t, "release: r2024b\n")

	content, err := Dockerfile(rec, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(content, "FROM mathworks/matlab-deps:r2024b") {
		t.Fatalf("unexpected base image:\n%s", content)
	}
	if !strings.Contains(content, "apt-get install --no-install-recommends -y ca-certificates sudo unzip wget") {
		t.Fatalf("expected required packages:\n%s", content)
	}
	if !strings.Contains(content, `adduser --shell /bin/bash --disabled-password --gecos "" matlab`) {
		t.Fatalf("expected user provisioning:\n%s", content)
	}
	if !strings.Contains(content, "--release=R2024b") {
		t.Fatalf("expected installer release flag:\n%s", content)
	}
	if !strings.Contains(content, "--destination=/opt/matlab/R2024b") {
		t.Fatalf("expected installer destination flag:\n%s", content)
	}
	if !strings.Contains(content, "--products MATLAB") {
		t.Fatalf("expected installer products flag:\n%s", content)
	}
	if !strings.Contains(content, `ENTRYPOINT ["matlab"]`) {
		t.Fatalf("expected matlab entrypoint:\n%s", content)
	}
}

func TestDockerfileInstallerGuard(t *testing.T) {
	rec := baseRecipe(t, "release: r2024b\n")

	content, err := Dockerfile(rec, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Failure path: surface the installer log and abort the build.
	if !strings.Contains(content, "cat /tmp/mathworks_root.log && false") {
		t.Fatalf("expected failure path with log output:\n%s", content)
	}
	// Success path: clean up the installer and link the executable.
	if !strings.Contains(content, "rm -f mpm /tmp/mathworks_root.log") {
		t.Fatalf("expected installer cleanup:\n%s", content)
	}
	if !strings.Contains(content, "ln -s /opt/matlab/R2024b/bin/matlab /usr/local/bin/matlab") {
		t.Fatalf("expected executable symlink:\n%s", content)
	}
}

func TestDockerfileLicenseServerVerbatim(t *testing.T) {
	rec := baseRecipe(t, "release: r2024b\nlicense:\n  server: 27000@license.example.com\n")

	content, err := Dockerfile(rec, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(content, "ENV "+license.EnvVar+"=27000@license.example.com") {
		t.Fatalf("expected verbatim license env:\n%s", content)
	}
}

func TestDockerfileOmitsLicenseWhenUnset(t *testing.T) {
	rec := baseRecipe(t, "release: r2024b\n")

	content, err := Dockerfile(rec, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Contains(content, license.EnvVar) {
		t.Fatalf("license env must be absent when no server configured:\n%s", content)
	}
}

func TestDockerfileTelemetryOptOut(t *testing.T) {
	enabled, err := Dockerfile(baseRecipe(t, "release: r2024b\n"), nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(enabled, "ENV "+license.TelemetryEnableVar+"=true") {
		t.Fatalf("expected telemetry env by default:\n%s", enabled)
	}
	if !strings.Contains(enabled, "ENV "+license.TelemetryTagsVar+"=") {
		t.Fatalf("expected telemetry tags env by default:\n%s", enabled)
	}

	disabled, err := Dockerfile(baseRecipe(t, "release: r2024b\ntelemetry: false\n"), nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Contains(disabled, license.TelemetryEnableVar) {
		t.Fatalf("telemetry env must be absent when disabled:\n%s", disabled)
	}
}

func TestDockerfileAddonStages(t *testing.T) {
	rec := baseRecipe(t, strings.TrimSpace(`
release: r2023b
addons:
  - name: convnet
    source: https://example.com/convnet.tar.gz
    build_command: vl_compilenn
`)+"\n")

	content, err := Dockerfile(rec, map[string]string{"convnet": "convnet.tar.gz"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(content, "COPY convnet.tar.gz /tmp/convnet.tar.gz") {
		t.Fatalf("expected addon archive copy:\n%s", content)
	}
	if !strings.Contains(content, "tar -xzf /tmp/convnet.tar.gz -C /home/matlab/convnet") {
		t.Fatalf("expected addon extraction:\n%s", content)
	}
	if !strings.Contains(content, `/usr/local/bin/matlab -batch "vl_compilenn"`) {
		t.Fatalf("expected addon compile step:\n%s", content)
	}
}

func TestDockerfileAddonZipArchive(t *testing.T) {
	rec := baseRecipe(t, strings.TrimSpace(`
release: r2023b
addons:
  - name: convnet
    source: https://example.com/convnet.zip
`)+"\n")

	content, err := Dockerfile(rec, map[string]string{"convnet": "convnet.zip"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(content, "unzip -q /tmp/convnet.zip -d /home/matlab/convnet") {
		t.Fatalf("expected unzip extraction:\n%s", content)
	}
}

func TestDockerfileMissingAddonArchive(t *testing.T) {
	rec := baseRecipe(t, strings.TrimSpace(`
release: r2023b
addons:
  - name: convnet
    source: https://example.com/convnet.tar.gz
`)+"\n")

	if _, err := Dockerfile(rec, nil); err == nil {
		t.Fatalf("expected error for unstaged addon archive")
	}
}

func TestDockerfileDeterministic(t *testing.T) {
	rec := baseRecipe(t, "release: r2024b\nos_packages: [vim, git]\n")

	first, err := Dockerfile(rec, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := Dockerfile(rec, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first != second {
		t.Fatalf("render is not deterministic")
	}
	if !strings.Contains(first, "ca-certificates sudo unzip wget git vim") {
		t.Fatalf("expected extras sorted after required packages:\n%s", first)
	}
}
