// Package cli turns grip's command line into exactly one mode and runs it.
//
// Run is the whole pipeline: legacy flags are rejected first, the rest is
// parsed with pflag, SelectMode picks one of ShowVersion, ClearCache,
// Export or Serve in that order of precedence, and the outcome of the
// chosen operation becomes the process exit code.
//
// Example usage:
//
//	env := cli.NewEnv("Grip 4.6.2")
//	os.Exit(cli.Run(ctx, env, app, os.Args[1:]))
//
// The operations themselves are supplied through the Operations interface,
// so the decision logic can be exercised without a server or a filesystem
// cache.
package cli
