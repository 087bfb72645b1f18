// Where: internal/app/command_context.go
// What: Shared recipe resolution for CLI commands.
// Why: Every command starts from the same recipe lookup order.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matforge/matforge/internal/config"
	"github.com/matforge/matforge/internal/meta"
	"github.com/matforge/matforge/internal/recipe"
)

// resolveRecipePath picks the recipe file in priority order: the --recipe
// flag, a matforge.yaml in the project directory, then the last recipe
// recorded for this project in global config.
func resolveRecipePath(cli CLI, deps Dependencies) (string, error) {
	if override := strings.TrimSpace(cli.Recipe); override != "" {
		return override, nil
	}

	projectDir := deps.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	candidate := filepath.Join(projectDir, meta.RecipeFilename)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}

	if last, ok := config.LastRecipe(projectDir); ok {
		if _, err := os.Stat(last); err == nil {
			return last, nil
		}
	}

	return "", fmt.Errorf("no recipe found: pass --recipe or create %s", meta.RecipeFilename)
}

// loadRecipe resolves and parses the recipe for the current invocation.
func loadRecipe(cli CLI, deps Dependencies) (recipe.Recipe, string, error) {
	path, err := resolveRecipePath(cli, deps)
	if err != nil {
		return recipe.Recipe{}, "", err
	}
	rec, err := recipe.Load(path)
	if err != nil {
		return recipe.Recipe{}, "", err
	}
	return rec, path, nil
}

// registryFromConfig returns the configured registry prefix, if any.
func registryFromConfig() string {
	path, err := config.GlobalConfigPath()
	if err != nil {
		return ""
	}
	cfg, err := config.LoadGlobalConfig(path)
	if err != nil {
		return ""
	}
	return cfg.Registry
}
