// Package github finds a token for authenticating against the GitHub
// markdown API.
//
// grip renders offline by default. When --api-url (or the api_url setting)
// selects the GitHub renderer and no --user/--pass pair is given, the token
// is looked up in this order:
//
//  1. GH_TOKEN environment variable
//  2. GITHUB_TOKEN environment variable
//  3. .env file at the root of the current repository
//  4. ~/.env file
//  5. ~/.config/gh/hosts.yml (or $XDG_CONFIG_HOME/gh/hosts.yml)
//
// Example usage:
//
//	result, err := github.FindToken(git.RepositoryRoot(wd))
//	if err == nil {
//	    auth.Token = result.Token
//	}
package github
