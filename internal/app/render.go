// Where: internal/app/render.go
// What: Render command.
// Why: Let users inspect the generated Dockerfile without docker installed.
package app

import (
	"fmt"
	"io"

	"github.com/matforge/matforge/internal/render"
	"github.com/matforge/matforge/internal/stage"
)

func runRender(cli CLI, deps Dependencies, out io.Writer) int {
	rec, _, err := loadRecipe(cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}

	// No staging happens here; archive names are derived the same way the
	// stager would so the output matches what build would produce.
	archives := make(map[string]string, len(rec.Addons))
	for _, addon := range rec.Addons {
		archives[addon.Name] = stage.ArchiveName(addon)
	}

	dockerfile, err := render.Dockerfile(rec, archives)
	if err != nil {
		return exitWithError(out, err)
	}
	fmt.Fprint(out, dockerfile)
	return 0
}
