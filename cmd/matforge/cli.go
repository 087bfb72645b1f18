// Where: cmd/matforge/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matforge/matforge/internal/app"
	"github.com/matforge/matforge/internal/engine"
	"github.com/matforge/matforge/internal/stage"
)

var (
	getwd           = os.Getwd
	newDockerClient = engine.NewDockerClient
	newS3Fetcher    = stage.NewS3Fetcher
)

// buildDependencies constructs all runtime dependencies required by the CLI.
// It initializes the Docker client, stager, builder, and verifier.
func buildDependencies() (app.Dependencies, error) {
	projectDir, err := getwd()
	if err != nil {
		return app.Dependencies{}, err
	}

	client, err := newDockerClient()
	if err != nil {
		return app.Dependencies{}, err
	}

	// S3 staging is optional; without AWS configuration only s3:// addon
	// sources are unavailable.
	var s3 stage.Fetcher
	if fetcher, err := newS3Fetcher(context.Background()); err == nil {
		s3 = fetcher
	} else {
		fmt.Fprintf(os.Stderr, "Warning: s3 sources unavailable: %v\n", err)
	}

	runner := engine.ExecRunner{}
	return app.Dependencies{
		ProjectDir: projectDir,
		Out:        os.Stdout,
		Prompter:   app.HuhPrompter{},
		Builder:    engine.ImageBuilder{Runner: runner},
		Verifier:   engine.Verifier{Runner: runner},
		Stager:     stage.NewStager(s3),
		Docker:     client,
	}, nil
}
