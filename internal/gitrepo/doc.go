// Package gitrepo inspects git repositories on disk without spawning git.
//
// Inspector backs the repository preflight that runs before repository
// workflows resolve their defaults.
package gitrepo
