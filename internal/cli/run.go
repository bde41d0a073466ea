package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vyk2rr/grip/internal/apperr"
	"github.com/vyk2rr/grip/internal/ui"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Usage is grip's help text.
const Usage = `grip - preview GitHub-flavored markdown locally

USAGE:
    grip [OPTIONS] [<path>] [<address>]
    grip -V | --version
    grip -h | --help

ARGUMENTS:
    <path>       A file to render or a directory containing a README (- for stdin)
    <address>    What to listen on, <host>[:<port>] or just <port>

OPTIONS:
    --user-content         Render as user-content like comments or issues
    --context REPO         Repository context, used with --user-content
    --user USERNAME        GitHub username for API authentication
    --pass PASSWORD        GitHub password or token for API authentication
    --wide                 Render wide, as when the side nav is collapsed
    --clear                Clear the cached rendered pages and exit
    --export               Export to <path>.html instead of serving,
                           optionally using <address> as the out file (- for stdout)
    -b, --browser          Open a tab in the browser after the server starts
    --api-url URL          Render through a GitHub API, e.g. a GitHub Enterprise
                           instance (https://api.github.com for the public one)
    --title TITLE          Set the page title, the filename by default
    --noupdate             Do not refresh the page when the file changes
    -h, --help             Show this help message
    -V, --version          Show version information

EXAMPLES:
    # Preview the README in the current directory on localhost:6419
    grip

    # Preview a file on another port
    grip CHANGELOG.md 8080

    # Listen on all interfaces
    grip docs 0.0.0.0

    # Export to a standalone HTML file
    grip --export README.md out.html

ENVIRONMENT VARIABLES:
    GRIPHOME                Settings directory (default ~/.grip)
    GRIP_HOST, GRIP_PORT    Default listen address
    GRIP_API_URL            GitHub API to render with
    GH_TOKEN                GitHub token for API rendering
`

// Operations performs the work behind each mode.
type Operations interface {
	ClearCache(ctx context.Context) error
	Export(ctx context.Context, cfg OperationConfig) error
	Serve(ctx context.Context, cfg OperationConfig, host, port string) error
}

// Env is the process-wide configuration Run works with.
type Env struct {
	// Version is the full version line, e.g. "Grip 4.6.2".
	Version string
	Usage   string
	Stdout  io.Writer
	Stderr  io.Writer
	// Logger reports failures that are not the user's to fix.
	Logger *log.Logger
}

// NewEnv returns an Env bound to the process's standard streams.
func NewEnv(version string) Env {
	return Env{
		Version: version,
		Usage:   Usage,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Logger:  log.NewWithOptions(os.Stderr, log.Options{Prefix: "grip"}),
	}
}

// Run executes one invocation and returns the process exit code.
func Run(ctx context.Context, env Env, ops Operations, argv []string) int {
	env = env.withDefaults()
	out := ui.New(env.Stderr)

	if err := CheckDeprecated(argv); err != nil {
		var dep *DeprecatedFlagError
		if errors.As(err, &dep) {
			for _, line := range dep.Lines() {
				out.Line("%s", line)
			}
		}
		return ExitUsage
	}

	args, err := Parse(argv)
	if err != nil {
		out.Error("%v", err)
		fmt.Fprint(env.Stderr, env.Usage)
		return ExitFailure
	}
	if args.Help {
		fmt.Fprint(env.Stdout, env.Usage)
		return ExitOK
	}

	switch m := SelectMode(args).(type) {
	case ShowVersion:
		fmt.Fprintln(env.Stdout, env.Version)
		return ExitOK

	case ClearCache:
		return env.exitCode(ops.ClearCache(ctx))

	case Export:
		return env.exitCode(ops.Export(ctx, m.Config))

	case Serve:
		if m.InvalidAddress {
			out.Error("Invalid address '%s'", m.Config.Output)
		}
		return env.exitCode(ops.Serve(ctx, m.Config, m.Host, m.Port))
	}

	return ExitFailure
}

// exitCode maps an operation result to an exit code. Validation errors are
// the user's to fix and get a single "Error:" line; anything else is logged.
func (env Env) exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case apperr.IsValidation(err):
		ui.New(env.Stderr).Error("%v", err)
	default:
		env.Logger.Error("grip failed", "err", err)
	}
	return ExitFailure
}

func (env Env) withDefaults() Env {
	if env.Usage == "" {
		env.Usage = Usage
	}
	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}
	if env.Stderr == nil {
		env.Stderr = os.Stderr
	}
	if env.Logger == nil {
		env.Logger = log.NewWithOptions(env.Stderr, log.Options{Prefix: "grip"})
	}
	return env
}
