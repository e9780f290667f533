package gitrepo

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

const (
	currentDirectoryConstant            = "."
	absolutePathErrorTemplateConstant   = "unable to resolve path %s: %w"
	openRepositoryErrorTemplateConstant = "unable to open repository at %s: %w"
	worktreeErrorTemplateConstant       = "repository at %s has no work tree: %w"
	bareRepositoryMessageConstant       = "bare repositories are not supported"
)

// ErrBareRepository indicates the located repository has no work tree.
var ErrBareRepository = errors.New(bareRepositoryMessageConstant)

// Inspector locates git repositories using go-git.
type Inspector struct{}

// NewInspector constructs an Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// LocateRepository returns the work tree root of the repository containing path.
// An empty path means the current directory.
func (inspector *Inspector) LocateRepository(path string) (string, error) {
	if len(path) == 0 {
		path = currentDirectoryConstant
	}

	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		return "", fmt.Errorf(absolutePathErrorTemplateConstant, path, absoluteError)
	}

	repository, openError := git.PlainOpenWithOptions(absolutePath, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		return "", fmt.Errorf(openRepositoryErrorTemplateConstant, absolutePath, openError)
	}

	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		if errors.Is(worktreeError, git.ErrIsBareRepository) {
			return "", fmt.Errorf(worktreeErrorTemplateConstant, absolutePath, ErrBareRepository)
		}
		return "", fmt.Errorf(worktreeErrorTemplateConstant, absolutePath, worktreeError)
	}

	return worktree.Filesystem.Root(), nil
}
