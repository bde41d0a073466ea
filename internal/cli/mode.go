package cli

import "github.com/vyk2rr/grip/internal/pathaddr"

// OperationConfig carries everything export and serve need. It is built
// once per invocation and passed by value.
type OperationConfig struct {
	// Path is the source: a file, a directory, "-" for stdin or "" for the
	// current directory.
	Path string
	// Output is the export target ("-" for stdout, "" for the default) or,
	// when serving, the address as given.
	Output string

	UserContent bool
	Context     string
	Username    string
	Password    string
	Wide        bool
	APIURL      string
	Title       string

	// Serve only
	Browser     bool
	AutoRefresh bool

	Export bool
}

// Mode is the single operation an invocation selects. The variants are
// ShowVersion, ClearCache, Export and Serve.
type Mode interface {
	mode()
}

// ShowVersion prints the version string.
type ShowVersion struct{}

// ClearCache removes the render cache.
type ClearCache struct{}

// Export writes the rendered page to a file or stdout.
type Export struct {
	Config OperationConfig
}

// Serve runs the preview server until it stops.
type Serve struct {
	Config OperationConfig
	Host   string
	Port   string
	// InvalidAddress is set when an address was given but yielded neither
	// a host nor a port. It is reported, not enforced.
	InvalidAddress bool
}

func (ShowVersion) mode() {}
func (ClearCache) mode()  {}
func (Export) mode()      {}
func (Serve) mode()       {}

// SelectMode picks the mode for args. Precedence is version, clear,
// export, then serve; exactly one is returned.
func SelectMode(args *Args) Mode {
	switch {
	case args.Version:
		return ShowVersion{}
	case args.Clear:
		return ClearCache{}
	case args.Export:
		cfg := baseConfig(args)
		cfg.Path = args.Path
		cfg.Output = args.Address
		cfg.AutoRefresh = false
		cfg.Export = true
		return Export{Config: cfg}
	}

	loc := pathaddr.Resolve(args.Path, args.Address)
	host, port := pathaddr.SplitAddress(loc.Address)

	cfg := baseConfig(args)
	cfg.Path = loc.Path
	cfg.Output = loc.Address
	cfg.Browser = args.Browser
	cfg.AutoRefresh = !args.NoUpdate

	return Serve{
		Config:         cfg,
		Host:           host,
		Port:           port,
		InvalidAddress: loc.Address != "" && host == "" && port == "",
	}
}

func baseConfig(args *Args) OperationConfig {
	return OperationConfig{
		UserContent: args.UserContent,
		Context:     args.Context,
		Username:    args.User,
		Password:    args.Pass,
		Wide:        args.Wide,
		APIURL:      args.APIURL,
		Title:       args.Title,
	}
}
