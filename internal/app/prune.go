// Where: internal/app/prune.go
// What: Prune command.
// Why: Remove matforge-built images safely, with a confirmation gate.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/matforge/matforge/internal/engine"
)

func runPrune(cli CLI, deps Dependencies, out io.Writer) int {
	if deps.Docker == nil {
		fmt.Fprintln(out, "prune: docker client not configured")
		return 1
	}

	ctx := context.Background()
	images, err := engine.ListManagedImages(ctx, deps.Docker)
	if err != nil {
		return exitWithError(out, err)
	}
	if len(images) == 0 {
		fmt.Fprintln(out, "nothing to prune")
		return 0
	}

	fmt.Fprintln(out, "WARNING! This will remove:")
	for _, img := range images {
		label := img.ID
		if len(img.Tags) > 0 {
			label = img.Tags[0]
		}
		fmt.Fprintf(out, "  - %s\n", label)
	}

	if !cli.Prune.Yes {
		if !isTerminal(os.Stdin) {
			return exitWithError(out, fmt.Errorf("prune requires --yes in non-interactive mode"))
		}
		if deps.Prompter == nil {
			return exitWithError(out, fmt.Errorf("prune: prompter not configured"))
		}
		confirmed, err := deps.Prompter.Confirm("Are you sure you want to continue?")
		if err != nil {
			return exitWithError(out, err)
		}
		if !confirmed {
			fmt.Fprintln(out, "Aborted.")
			return 1
		}
	}

	removed, err := engine.RemoveManagedImages(ctx, deps.Docker)
	if err != nil {
		return exitWithError(out, err)
	}
	fmt.Fprintf(out, "prune complete: removed %d image(s)\n", len(removed))
	return 0
}
