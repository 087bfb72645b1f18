// Where: internal/config/global.go
// What: Global config load/save helpers.
// Why: Manage ~/.matforge/config.yaml consistently.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matforge/matforge/internal/envutil"
	"github.com/matforge/matforge/internal/meta"
	"gopkg.in/yaml.v3"
)

// Host env suffixes overriding where the global config lives.
const (
	HostSuffixConfigPath = "CONFIG_PATH"
	HostSuffixConfigHome = "CONFIG_HOME"
)

// GlobalConfig represents the ~/.matforge/config.yaml global configuration.
// It tracks the default registry, last-used recipes per project directory,
// and per-release build defaults.
type GlobalConfig struct {
	Version  int                      `yaml:"version"`
	Registry string                   `yaml:"registry,omitempty"`
	Recipes  map[string]RecipeEntry   `yaml:"recipes,omitempty"`
	Defaults map[string]BuildDefaults `yaml:"defaults,omitempty"`
}

// RecipeEntry stores a project's recipe path and last-used timestamp.
type RecipeEntry struct {
	Path     string `yaml:"path"`
	LastUsed string `yaml:"last_used"`
}

// BuildDefaults holds per-release build settings applied when the matching
// build flags are not given.
type BuildDefaults struct {
	Tag     string `yaml:"tag,omitempty"`
	NoCache bool   `yaml:"no_cache,omitempty"`
}

// DefaultGlobalConfig returns an initialized GlobalConfig with version set.
func DefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		Version: 1,
		Recipes: map[string]RecipeEntry{},
	}
}

// GlobalConfigPath returns the path to the global config file. It honors
// MATFORGE_CONFIG_PATH and MATFORGE_CONFIG_HOME overrides.
func GlobalConfigPath() (string, error) {
	if override := strings.TrimSpace(envutil.GetHostEnv(HostSuffixConfigPath)); override != "" {
		path := override
		if !filepath.IsAbs(path) {
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
		}
		return path, nil
	}
	if override := strings.TrimSpace(envutil.GetHostEnv(HostSuffixConfigHome)); override != "" {
		return filepath.Join(override, "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, meta.HomeDir, "config.yaml"), nil
}

// EnsureGlobalConfig creates the global config file if it doesn't exist.
func EnsureGlobalConfig() error {
	path, err := GlobalConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return SaveGlobalConfig(path, DefaultGlobalConfig())
		}
		return err
	}
	return nil
}

// LoadGlobalConfig reads and parses the global configuration file.
func LoadGlobalConfig(path string) (GlobalConfig, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return GlobalConfig{}, err
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return GlobalConfig{}, err
	}
	if cfg.Recipes == nil {
		cfg.Recipes = map[string]RecipeEntry{}
	}
	return cfg, nil
}

// SaveGlobalConfig writes a GlobalConfig to the specified path.
func SaveGlobalConfig(path string, cfg GlobalConfig) error {
	payload, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, payload, 0o644)
}

// RememberRecipe records the recipe used in projectDir so later invocations
// can default to it.
func RememberRecipe(projectDir, recipePath string, now func() time.Time) error {
	path, err := GlobalConfigPath()
	if err != nil {
		return err
	}
	cfg, err := LoadGlobalConfig(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		cfg = DefaultGlobalConfig()
	}
	if now == nil {
		now = time.Now
	}
	cfg.Recipes[projectDir] = RecipeEntry{
		Path:     recipePath,
		LastUsed: now().UTC().Format(time.RFC3339),
	}
	return SaveGlobalConfig(path, cfg)
}

// DefaultsForRelease returns the build defaults recorded for a release.
// A missing entry yields the zero value.
func DefaultsForRelease(release string) BuildDefaults {
	path, err := GlobalConfigPath()
	if err != nil {
		return BuildDefaults{}
	}
	cfg, err := LoadGlobalConfig(path)
	if err != nil {
		return BuildDefaults{}
	}
	return cfg.Defaults[release]
}

// LastRecipe returns the recorded recipe path for projectDir, if any.
func LastRecipe(projectDir string) (string, bool) {
	path, err := GlobalConfigPath()
	if err != nil {
		return "", false
	}
	cfg, err := LoadGlobalConfig(path)
	if err != nil {
		return "", false
	}
	entry, ok := cfg.Recipes[projectDir]
	if !ok || strings.TrimSpace(entry.Path) == "" {
		return "", false
	}
	return entry.Path, true
}
