// Where: internal/app/verify.go
// What: Verify command.
// Why: A built image should prove it carries the requested release.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/matforge/matforge/internal/engine"
)

func runVerify(cli CLI, deps Dependencies, out io.Writer) int {
	if deps.Verifier == nil {
		fmt.Fprintln(out, "verify: verifier not configured")
		return 1
	}

	rec, _, err := loadRecipe(cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}

	tag := engine.ImageTag(rec, registryFromConfig(), cli.Verify.Tag)
	if err := deps.Verifier.Verify(context.Background(), tag, rec.Release); err != nil {
		return exitWithError(out, err)
	}

	fmt.Fprintf(out, "verified: %s reports release %s\n", tag, rec.Release)
	return 0
}
