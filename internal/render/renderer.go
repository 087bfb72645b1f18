// Where: internal/render/renderer.go
// What: Render the Dockerfile for a resolved recipe.
// Why: Keep the build recipe declarative; all shell lives in the template.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/matforge/matforge/internal/meta"
	"github.com/matforge/matforge/internal/recipe"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	tmplOnce sync.Once
	tmplErr  error
	tmpl     *template.Template
)

// requiredPackages are always installed before the product installer runs.
var requiredPackages = []string{"ca-certificates", "sudo", "unzip", "wget"}

// dockerfileContext is the data handed to the Dockerfile template.
type dockerfileContext struct {
	BaseImage        string
	Release          string
	InstallerRelease string
	InstallerURL     string
	InstallerLog     string
	ExecutableLink   string
	Destination      string
	Products         []string
	OSPackages       []string
	User             string
	Sudo             bool
	LicenseServer    string
	Telemetry        bool
	TelemetryTags    string
	Addons           []addonContext
}

type addonContext struct {
	Name         string
	Archive      string
	ExtractTo    string
	BuildCommand string
	Unzip        bool
}

// Dockerfile renders the complete Dockerfile for the recipe. archives maps
// each addon name to the archive filename staged into the build context.
// Rendering is deterministic: equal inputs produce identical bytes.
func Dockerfile(rec recipe.Recipe, archives map[string]string) (string, error) {
	baseImage, err := recipe.BaseImageFor(rec.Release, rec.BaseImage)
	if err != nil {
		return "", err
	}

	addons := make([]addonContext, 0, len(rec.Addons))
	for _, addon := range rec.Addons {
		archive, ok := archives[addon.Name]
		if !ok {
			return "", fmt.Errorf("addon %s: no staged archive", addon.Name)
		}
		addons = append(addons, addonContext{
			Name:         addon.Name,
			Archive:      archive,
			ExtractTo:    addon.ExtractTo,
			BuildCommand: addon.BuildCommand,
			Unzip:        strings.HasSuffix(archive, ".zip"),
		})
	}

	ctx := dockerfileContext{
		BaseImage:        baseImage,
		Release:          rec.Release,
		InstallerRelease: recipe.InstallerRelease(rec.Release),
		InstallerURL:     meta.InstallerURL,
		InstallerLog:     meta.InstallerLogPath,
		ExecutableLink:   meta.ExecutableLink,
		Destination:      rec.Destination,
		Products:         rec.Products,
		OSPackages:       mergePackages(rec.OSPackages),
		User:             rec.User.Name,
		Sudo:             rec.User.SudoEnabled(),
		LicenseServer:    rec.License.Server,
		Telemetry:        rec.TelemetryEnabled(),
		TelemetryTags:    telemetryTags(rec.Release),
		Addons:           addons,
	}

	t, err := loadTemplates()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "dockerfile.tmpl", ctx); err != nil {
		return "", fmt.Errorf("render dockerfile: %w", err)
	}
	return buf.String(), nil
}

func loadTemplates() (*template.Template, error) {
	tmplOnce.Do(func() {
		tmpl, tmplErr = template.New("").
			Funcs(sprig.TxtFuncMap()).
			ParseFS(templateFS, "templates/*.tmpl")
	})
	return tmpl, tmplErr
}

// mergePackages combines the required package set with recipe extras,
// deduplicated and sorted so renders stay stable.
func mergePackages(extras []string) []string {
	seen := map[string]bool{}
	merged := make([]string, 0, len(requiredPackages)+len(extras))
	for _, pkg := range requiredPackages {
		seen[pkg] = true
		merged = append(merged, pkg)
	}
	added := make([]string, 0, len(extras))
	for _, pkg := range extras {
		pkg = strings.TrimSpace(pkg)
		if pkg == "" || seen[pkg] {
			continue
		}
		seen[pkg] = true
		added = append(added, pkg)
	}
	sort.Strings(added)
	return append(merged, added...)
}

func telemetryTags(release string) string {
	return fmt.Sprintf("MATLAB:%s:%s:V1", strings.ToUpper(meta.Slug), strings.ToUpper(release))
}
