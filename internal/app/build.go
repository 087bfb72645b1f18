// Where: internal/app/build.go
// What: Build command orchestration.
// Why: Stage, render, and build in one guarded sequence.
package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/matforge/matforge/internal/config"
	"github.com/matforge/matforge/internal/engine"
	"github.com/matforge/matforge/internal/render"
	"github.com/matforge/matforge/internal/stage"
)

func runBuild(cli CLI, deps Dependencies, out io.Writer) int {
	if cli.Build.RenderOnly {
		return runRender(cli, deps, out)
	}
	if deps.Builder == nil {
		fmt.Fprintln(out, "build: builder not configured")
		return 1
	}
	if deps.Stager == nil {
		fmt.Fprintln(out, "build: stager not configured")
		return 1
	}

	rec, recipePath, err := loadRecipe(cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}

	ctx := context.Background()
	contextDir, err := stage.ContextDir(deps.ProjectDir, rec)
	if err != nil {
		return exitWithError(out, err)
	}

	archives, err := deps.Stager.Stage(ctx, rec, contextDir)
	if err != nil {
		return exitWithError(out, err)
	}

	dockerfile, err := render.Dockerfile(rec, archives)
	if err != nil {
		return exitWithError(out, err)
	}
	dockerfilePath, err := stage.WriteDockerfile(contextDir, dockerfile)
	if err != nil {
		return exitWithError(out, err)
	}

	labels, err := engine.ImageLabels(rec)
	if err != nil {
		return exitWithError(out, err)
	}
	defaults := config.DefaultsForRelease(rec.Release)
	tagOverride := strings.TrimSpace(cli.Build.Tag)
	if tagOverride == "" {
		tagOverride = defaults.Tag
	}
	tag := engine.ImageTag(rec, registryFromConfig(), tagOverride)

	request := engine.BuildRequest{
		ContextDir: contextDir,
		Dockerfile: dockerfilePath,
		Tag:        tag,
		NoCache:    cli.Build.NoCache || defaults.NoCache,
		Verbose:    cli.Build.Verbose,
		Labels:     labels,
	}
	if err := deps.Builder.Build(ctx, request); err != nil {
		return exitWithError(out, err)
	}

	if err := config.RememberRecipe(deps.ProjectDir, recipePath, deps.Now); err != nil {
		fmt.Fprintf(out, "Warning: failed to record recipe: %v\n", err)
	}

	fmt.Fprintf(out, "build complete: %s\n", tag)
	return 0
}
