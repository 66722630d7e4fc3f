package paths

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// DiscoverEvaluationRoot picks the evaluation root for target: the root of
// the enclosing git worktree when there is one, otherwise the target
// directory (or the parent directory of a file target).
func DiscoverEvaluationRoot(target string) (string, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}

	start := absTarget
	info, err := os.Stat(absTarget)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		start = filepath.Dir(absTarget)
	}

	repo, err := git.PlainOpenWithOptions(start, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return start, nil
	}
	if err != nil {
		return "", err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no worktree to anchor to.
		return start, nil
	}

	root := worktree.Filesystem.Root()
	if rel, relErr := filepath.Rel(root, start); relErr != nil || strings.HasPrefix(rel, "..") {
		return start, nil
	}
	return root, nil
}
