package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// Args represents one parsed invocation. It is built once by Parse and
// not modified afterwards.
type Args struct {
	// Mode flags
	Version bool
	Help    bool
	Clear   bool
	Export  bool

	// Rendering flags
	UserContent bool
	Context     string
	Wide        bool
	Title       string

	// API flags
	User   string
	Pass   string
	APIURL string

	// Server flags
	Browser  bool
	NoUpdate bool

	// Positionals, "" when absent
	Path    string
	Address string
}

// DeprecatedFlagError reports a flag grip no longer accepts.
type DeprecatedFlagError struct {
	Flag        string
	Replacement string
}

func (e *DeprecatedFlagError) Error() string {
	return fmt.Sprintf("Use %s instead of %s", e.Replacement, e.Flag)
}

// Lines is the corrective message shown to the user.
func (e *DeprecatedFlagError) Lines() []string {
	return []string{e.Error(), "See grip -h for details"}
}

var deprecatedFlags = []struct {
	short, long string
	replacement string
}{
	{"-a", "--address", "grip [options] <path> <address>"},
	{"-p", "--port", "grip [options] [<path>] [<hostname>:]<port>"},
}

// CheckDeprecated scans every raw argument for the removed -a/--address
// and -p/--port flags, including those after "--". The address flag is
// reported first when both appear.
func CheckDeprecated(argv []string) error {
	for _, f := range deprecatedFlags {
		for _, arg := range argv {
			if arg == f.short || arg == f.long || strings.HasPrefix(arg, f.long+"=") {
				return &DeprecatedFlagError{Flag: f.short, Replacement: f.replacement}
			}
		}
	}
	return nil
}

// Parse parses arguments (without the program name) into an Args struct.
// Only malformed invocations fail here: unknown flags, missing flag values
// and more than two positionals. Values are not checked for meaning.
func Parse(argv []string) (*Args, error) {
	args := &Args{}

	fs := pflag.NewFlagSet("grip", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false

	fs.BoolVarP(&args.Version, "version", "V", false, "Show version information")
	fs.BoolVarP(&args.Help, "help", "h", false, "Show this help message")
	fs.BoolVar(&args.UserContent, "user-content", false, "Render as user-content like comments or issues")
	fs.StringVar(&args.Context, "context", "", "Repository context for --user-content")
	fs.StringVar(&args.User, "user", "", "GitHub username for API authentication")
	fs.StringVar(&args.Pass, "pass", "", "GitHub password or token for API authentication")
	fs.BoolVar(&args.Wide, "wide", false, "Render wide, as when the side nav is collapsed")
	fs.BoolVar(&args.Clear, "clear", false, "Clear the cache and exit")
	fs.BoolVar(&args.Export, "export", false, "Export to a file instead of serving")
	fs.BoolVarP(&args.Browser, "browser", "b", false, "Open a browser tab once the server starts")
	fs.StringVar(&args.APIURL, "api-url", "", "Base URL of the GitHub API to render with")
	fs.StringVar(&args.Title, "title", "", "Page title, the filename by default")
	fs.BoolVar(&args.NoUpdate, "noupdate", false, "Do not refresh when the file changes")

	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			args.Help = true
			return args, nil
		}
		return nil, err
	}

	positionals := fs.Args()
	switch {
	case len(positionals) > 2:
		return nil, fmt.Errorf("unexpected argument %q", positionals[2])
	case len(positionals) == 2:
		args.Path, args.Address = positionals[0], positionals[1]
	case len(positionals) == 1:
		args.Path = positionals[0]
	}

	return args, nil
}
