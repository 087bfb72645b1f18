// Where: internal/meta/meta.go
// What: CLI-local metadata constants.
// Why: Keep project identity in one place.
package meta

const (
	// Project Identity
	AppName     = "matforge"
	Slug        = "matforge"
	EnvPrefix   = "MATFORGE"
	ImagePrefix = "matforge"
	LabelPrefix = "io.matforge"

	// Directory Layout
	HomeDir    = ".matforge"
	StagingDir = ".matforge-stage"

	// Recipe Constants
	RecipeFilename = "matforge.yaml"

	// Installer Constants
	InstallerURL     = "https://www.mathworks.com/mpm/glnxa64/mpm"
	InstallerLogPath = "/tmp/mathworks_root.log"
	ExecutableLink   = "/usr/local/bin/matlab"
)
