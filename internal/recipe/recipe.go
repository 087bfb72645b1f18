// Where: internal/recipe/recipe.go
// What: Declarative build recipe model.
// Why: One struct describing everything a provisioned image build needs.
package recipe

// Recipe describes a single MATLAB container image build.
type Recipe struct {
	Release     string   `yaml:"release" json:"release"`
	Products    []string `yaml:"products,omitempty" json:"products,omitempty"`
	Destination string   `yaml:"destination,omitempty" json:"destination,omitempty"`
	BaseImage   string   `yaml:"base_image,omitempty" json:"base_image,omitempty"`
	OSPackages  []string `yaml:"os_packages,omitempty" json:"os_packages,omitempty"`
	License     License  `yaml:"license,omitempty" json:"license,omitempty"`
	User        User     `yaml:"user,omitempty" json:"user,omitempty"`
	Addons      []Addon  `yaml:"addons,omitempty" json:"addons,omitempty"`
	Telemetry   *bool    `yaml:"telemetry,omitempty" json:"telemetry,omitempty"`
}

// License carries network license settings baked into the image.
type License struct {
	Server string `yaml:"server,omitempty" json:"server,omitempty"`
}

// User describes the non-root account provisioned inside the image.
type User struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Sudo *bool  `yaml:"sudo,omitempty" json:"sudo,omitempty"`
}

// Addon describes a third-party toolbox installed on top of the base
// environment. Source may be a local path, an https URL, or an s3 URI; the
// archive is staged into the build context before the build starts.
type Addon struct {
	Name         string `yaml:"name" json:"name"`
	Source       string `yaml:"source" json:"source"`
	ExtractTo    string `yaml:"extract_to,omitempty" json:"extract_to,omitempty"`
	BuildCommand string `yaml:"build_command,omitempty" json:"build_command,omitempty"`
}

// TelemetryEnabled reports the effective telemetry setting (default on, as the
// upstream installer images document it, with removal as the opt-out).
func (r Recipe) TelemetryEnabled() bool {
	if r.Telemetry == nil {
		return true
	}
	return *r.Telemetry
}

// SudoEnabled reports whether the image user gets passwordless sudo.
func (u User) SudoEnabled() bool {
	if u.Sudo == nil {
		return true
	}
	return *u.Sudo
}
