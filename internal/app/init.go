// Where: internal/app/init.go
// What: Init command.
// Why: Give new projects a working recipe to start from.
package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matforge/matforge/internal/meta"
	"github.com/matforge/matforge/internal/recipe"
)

const starterRecipe = `# matforge recipe. Run "matforge build" in this directory.
release: %s
products:
  - MATLAB
# destination: /opt/matlab/%s
# license:
#   server: 27000@license.example.com
# addons:
#   - name: convnet
#     source: https://example.com/convnet.tar.gz
#     build_command: vl_compilenn
`

func runInit(cli CLI, deps Dependencies, out io.Writer) int {
	projectDir := deps.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	path := filepath.Join(projectDir, meta.RecipeFilename)
	if _, err := os.Stat(path); err == nil && !cli.Init.Force {
		return exitWithError(out, fmt.Errorf("%s already exists (use --force to overwrite)", path))
	}

	release, err := chooseRelease(cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}

	content := fmt.Sprintf(starterRecipe, release, recipe.InstallerRelease(release))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return exitWithError(out, fmt.Errorf("write recipe: %w", err))
	}

	fmt.Fprintf(out, "wrote %s (release %s)\n", path, release)
	return 0
}

// chooseRelease picks the starter release: the --release flag when given, an
// interactive selection on a terminal, the latest release otherwise.
func chooseRelease(cli CLI, deps Dependencies) (string, error) {
	if flag := recipe.NormalizeRelease(cli.Init.Release); flag != "" {
		if !recipe.SupportedRelease(flag) {
			return "", fmt.Errorf("unsupported release %q", cli.Init.Release)
		}
		return flag, nil
	}

	if deps.Prompter != nil && isTerminal(os.Stdin) {
		selected, err := deps.Prompter.Select("Choose a release", recipe.SupportedReleases())
		if err != nil {
			return "", err
		}
		if selected != "" {
			return selected, nil
		}
	}
	return recipe.LatestRelease, nil
}
