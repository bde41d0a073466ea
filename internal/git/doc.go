// Package git inspects the Git repository grip is run from.
//
// This package handles:
//   - Repository root detection, used to find a project .env holding a
//     GitHub token
//   - Deriving the "owner/repo" context from the origin remote, used to link
//     issue references when rendering user content
//
// Both fall back quietly when git is missing or the directory is not a
// repository.
//
// Example usage:
//
//	root := git.RepositoryRoot(wd)
//	if repo, ok := git.RemoteRepository(wd); ok {
//	    fmt.Println(repo) // "owner/repo"
//	}
package git
