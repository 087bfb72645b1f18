// Where: internal/recipe/parser.go
// What: Recipe loading, defaults resolution, and semantic checks.
// Why: Commands consume a fully resolved recipe, never raw YAML.
package recipe

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matforge/matforge/internal/license"
	"gopkg.in/yaml.v3"
)

const (
	defaultUser     = "matlab"
	defaultProduct  = "MATLAB"
	destinationRoot = "/opt/matlab"
	homeRoot        = "/home"
)

// reservedDestinations are paths the installer must never be pointed at.
var reservedDestinations = []string{"/", "/bin", "/boot", "/dev", "/etc", "/home", "/lib", "/proc", "/root", "/sbin", "/sys", "/tmp", "/usr", "/var"}

// archiveExtensions are the addon archive formats the rendered extraction
// step can handle.
var archiveExtensions = []string{".tar.gz", ".tgz", ".zip"}

// Load reads, validates, and resolves the recipe at path.
func Load(path string) (Recipe, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Recipe{}, fmt.Errorf("read recipe: %w", err)
	}
	rec, err := Parse(payload)
	if err != nil {
		return Recipe{}, fmt.Errorf("recipe %s: %w", path, err)
	}
	return rec, nil
}

// Parse decodes recipe YAML, runs schema validation, applies defaults, and
// enforces the semantic invariants the schema cannot express.
func Parse(payload []byte) (Recipe, error) {
	if err := validateSchema(payload); err != nil {
		return Recipe{}, err
	}

	var rec Recipe
	decoder := yaml.NewDecoder(bytes.NewReader(payload))
	decoder.KnownFields(true)
	if err := decoder.Decode(&rec); err != nil && err != io.EOF {
		return Recipe{}, fmt.Errorf("decode recipe: %w", err)
	}

	applyDefaults(&rec)
	if err := validateSemantics(rec); err != nil {
		return Recipe{}, err
	}
	return rec, nil
}

func applyDefaults(rec *Recipe) {
	rec.Release = NormalizeRelease(rec.Release)
	if len(rec.Products) == 0 {
		rec.Products = []string{defaultProduct}
	}
	if strings.TrimSpace(rec.User.Name) == "" {
		rec.User.Name = defaultUser
	}
	if strings.TrimSpace(rec.Destination) == "" {
		rec.Destination = filepath.Join(destinationRoot, InstallerRelease(rec.Release))
	}
	for i := range rec.Addons {
		if strings.TrimSpace(rec.Addons[i].ExtractTo) == "" {
			rec.Addons[i].ExtractTo = filepath.Join(homeRoot, rec.User.Name, rec.Addons[i].Name)
		}
	}
}

func validateSemantics(rec Recipe) error {
	if rec.Release == "" {
		return fmt.Errorf("release is required")
	}
	if !SupportedRelease(rec.Release) {
		return fmt.Errorf("unsupported release %q (supported: %s)",
			rec.Release, strings.Join(SupportedReleases(), ", "))
	}
	if !filepath.IsAbs(rec.Destination) {
		return fmt.Errorf("destination %q must be an absolute path", rec.Destination)
	}
	cleaned := filepath.Clean(rec.Destination)
	for _, reserved := range reservedDestinations {
		if cleaned == reserved {
			return fmt.Errorf("destination %q collides with a system path", rec.Destination)
		}
	}
	for _, product := range rec.Products {
		if strings.TrimSpace(product) == "" {
			return fmt.Errorf("products must not contain empty entries")
		}
	}
	if rec.License.Server != "" {
		if _, err := license.ParseServer(rec.License.Server); err != nil {
			return err
		}
	}
	seen := map[string]bool{}
	for _, addon := range rec.Addons {
		name := strings.TrimSpace(addon.Name)
		if name == "" {
			return fmt.Errorf("addon name is required")
		}
		if seen[name] {
			return fmt.Errorf("duplicate addon %q", name)
		}
		seen[name] = true
		if err := validateAddonSource(addon); err != nil {
			return err
		}
	}
	return nil
}

func validateAddonSource(addon Addon) error {
	source := strings.TrimSpace(addon.Source)
	if source == "" {
		return fmt.Errorf("addon %s: source is required", addon.Name)
	}
	// No scheme is a local archive path, checked for existence at staging time.
	if scheme, _, found := strings.Cut(source, "://"); found {
		switch scheme {
		case "http", "https", "s3":
		default:
			return fmt.Errorf("addon %s: unsupported source scheme in %q", addon.Name, source)
		}
	}
	lower := strings.ToLower(source)
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}
	return fmt.Errorf("addon %s: source %q is not a recognized archive (expected %s)",
		addon.Name, source, strings.Join(archiveExtensions, ", "))
}
