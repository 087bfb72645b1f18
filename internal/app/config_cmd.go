// Where: internal/app/config_cmd.go
// What: Config command handlers.
// Why: Inspect and edit the global configuration from the CLI.
package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/matforge/matforge/internal/config"
	"gopkg.in/yaml.v3"
)

func runConfigShow(_ CLI, _ Dependencies, out io.Writer) int {
	path, err := config.GlobalConfigPath()
	if err != nil {
		return exitWithError(out, err)
	}
	cfg, err := config.LoadGlobalConfig(path)
	if err != nil {
		return exitWithError(out, err)
	}
	payload, err := yaml.Marshal(cfg)
	if err != nil {
		return exitWithError(out, err)
	}
	fmt.Fprintf(out, "# %s\n", path)
	fmt.Fprint(out, string(payload))
	return 0
}

func runConfigSetRegistry(cli CLI, _ Dependencies, out io.Writer) int {
	path, err := config.GlobalConfigPath()
	if err != nil {
		return exitWithError(out, err)
	}
	cfg, err := config.LoadGlobalConfig(path)
	if err != nil {
		return exitWithError(out, err)
	}
	cfg.Registry = strings.TrimSpace(cli.Config.SetRegistry.Registry)
	if err := config.SaveGlobalConfig(path, cfg); err != nil {
		return exitWithError(out, err)
	}
	if cfg.Registry == "" {
		fmt.Fprintln(out, "registry cleared")
	} else {
		fmt.Fprintf(out, "registry set to %s\n", cfg.Registry)
	}
	return 0
}
