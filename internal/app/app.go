// Where: internal/app/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/matforge/matforge/internal/config"
	"github.com/matforge/matforge/internal/engine"
	"github.com/matforge/matforge/internal/recipe"
	"github.com/matforge/matforge/internal/version"
)

// Builder drives the image build for a staged context.
type Builder interface {
	Build(ctx context.Context, req engine.BuildRequest) error
}

// ReleaseVerifier checks that a built image reports the requested release.
type ReleaseVerifier interface {
	Verify(ctx context.Context, imageTag, release string) error
}

// Stager fetches addon archives into a build context directory.
type Stager interface {
	Stage(ctx context.Context, rec recipe.Recipe, dir string) (map[string]string, error)
}

// Prompter abstracts interactive input so tests can script answers.
type Prompter interface {
	Select(title string, options []string) (string, error)
	Confirm(question string) (bool, error)
}

// Dependencies holds all injected dependencies required for CLI command
// execution. This structure enables swapping implementations in tests.
type Dependencies struct {
	ProjectDir string
	Out        io.Writer
	Now        func() time.Time
	Prompter   Prompter
	Builder    Builder
	Verifier   ReleaseVerifier
	Stager     Stager
	Docker     engine.DockerClient
}

// CLI defines the command-line interface structure parsed by Kong.
// It contains global flags and all subcommand definitions.
type CLI struct {
	Recipe  string `short:"r" help:"Path to recipe file (default: matforge.yaml)"`
	EnvFile string `name:"env-file" help:"Path to .env file"`

	Build    BuildCmd    `cmd:"" help:"Build the image described by the recipe"`
	Render   RenderCmd   `cmd:"" help:"Print the generated Dockerfile"`
	Verify   VerifyCmd   `cmd:"" help:"Run the built image and check its release"`
	Releases ReleasesCmd `cmd:"" help:"List supported releases"`
	Init     InitCmd     `cmd:"" help:"Write a starter recipe"`
	Prune    PruneCmd    `cmd:"" help:"Remove matforge-built images"`
	Config   ConfigCmd   `cmd:"" name:"config" help:"Manage global configuration"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

type VersionCmd struct{}

type (
	BuildCmd struct {
		Tag        string `short:"t" help:"Override the image tag"`
		NoCache    bool   `name:"no-cache" help:"Do not use cache when building"`
		Verbose    bool   `short:"v" help:"Stream docker build output"`
		RenderOnly bool   `name:"render-only" help:"Print the Dockerfile instead of building"`
	}
	RenderCmd struct{}
	VerifyCmd struct {
		Tag string `short:"t" help:"Image tag to verify (default: derived from recipe)"`
	}
	ReleasesCmd struct{}
	InitCmd     struct {
		Release string `help:"Release for the starter recipe (default: prompt or latest)"`
		Force   bool   `help:"Overwrite an existing recipe"`
	}
	PruneCmd struct {
		Yes bool `short:"y" help:"Skip confirmation prompt"`
	}
	ConfigCmd struct {
		Show        ConfigShowCmd        `cmd:"" default:"1" help:"Print the global configuration"`
		SetRegistry ConfigSetRegistryCmd `cmd:"" name:"set-registry" help:"Set the default registry prefix"`
	}
	ConfigShowCmd        struct{}
	ConfigSetRegistryCmd struct {
		Registry string `arg:"" help:"Registry prefix, empty to clear"`
	}
)

// Run is the main entry point for CLI command execution. It parses the
// arguments and dispatches to the matching handler. Returns 0 on success.
func Run(args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}

	if err := config.EnsureGlobalConfig(); err != nil {
		return exitWithError(out, err)
	}

	cli := CLI{}
	helpShown := false
	parser, err := kong.New(&cli,
		kong.Name("matforge"),
		kong.Description("Provision MATLAB container images from declarative recipes."),
		kong.Writers(out, out),
		kong.Exit(func(int) { helpShown = true }),
	)
	if err != nil {
		return exitWithError(out, err)
	}

	kctx, err := parser.Parse(args)
	if helpShown {
		// kong already printed the help text.
		return 0
	}
	if err != nil {
		return exitWithError(out, err)
	}

	// Load environment file if provided or if .env exists alongside.
	if cli.EnvFile != "" {
		if err := godotenv.Load(cli.EnvFile); err != nil {
			fmt.Fprintf(out, "Warning: failed to load env file %s: %v\n", cli.EnvFile, err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(out, "Warning: failed to load .env: %v\n", err)
		}
	}

	if exitCode, handled := dispatchCommand(kctx.Command(), cli, deps, out); handled {
		return exitCode
	}

	fmt.Fprintln(out, "unknown command")
	return 1
}

type commandHandler func(CLI, Dependencies, io.Writer) int

func dispatchCommand(command string, cli CLI, deps Dependencies, out io.Writer) (int, bool) {
	handlers := map[string]commandHandler{
		"build":                          runBuild,
		"render":                         runRender,
		"verify":                         runVerify,
		"releases":                       runReleases,
		"init":                           runInit,
		"prune":                          runPrune,
		"config":                         runConfigShow,
		"config show":                    runConfigShow,
		"config set-registry <registry>": runConfigSetRegistry,
		"version":                        runVersion,
	}

	if handler, ok := handlers[command]; ok {
		return handler(cli, deps, out), true
	}
	return 1, false
}

func runVersion(_ CLI, _ Dependencies, out io.Writer) int {
	fmt.Fprintln(out, version.GetVersion())
	return 0
}

func exitWithError(out io.Writer, err error) int {
	fmt.Fprintln(out, err)
	return 1
}
