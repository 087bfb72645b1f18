// Where: internal/app/releases.go
// What: Releases command.
// Why: Surface the supported release table without reading source.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/matforge/matforge/internal/recipe"
)

func runReleases(_ CLI, deps Dependencies, out io.Writer) int {
	// On a terminal, offer a picker and report the chosen release's base
	// image; otherwise print the plain list.
	if deps.Prompter != nil && isTerminal(os.Stdin) {
		selected, err := deps.Prompter.Select("Supported releases", recipe.SupportedReleases())
		if err != nil {
			return exitWithError(out, err)
		}
		if selected != "" {
			image, err := recipe.BaseImageFor(selected, "")
			if err != nil {
				return exitWithError(out, err)
			}
			fmt.Fprintf(out, "%s (base image %s)\n", selected, image)
			return 0
		}
	}

	for _, release := range recipe.SupportedReleases() {
		if release == recipe.LatestRelease {
			fmt.Fprintf(out, "%s (latest)\n", release)
			continue
		}
		fmt.Fprintln(out, release)
	}
	return 0
}
