// Package git wraps the git commands hookgate needs.
package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chmouel/hookgate/internal/run"
)

// Service runs git queries against a repository. It never mutates the
// index; the only write operation is worktree creation.
type Service struct {
	runner run.Runner
}

// NewService constructs a Service on top of the given runner.
func NewService(runner run.Runner) *Service {
	return &Service{runner: runner}
}

// Available reports whether the git binary can be found. Advisory callers
// degrade to a no-op pass when it cannot.
func Available() bool {
	_, err := run.LookupPath("git")
	return err == nil
}

// StagedFiles lists repo-relative paths staged as added, copied, modified
// or renamed, filtered to the given extensions. A failing git invocation
// yields an empty list, matching the gate's "nothing staged, nothing to do"
// path.
func (s *Service) StagedFiles(ctx context.Context, dir string, exts []string) []string {
	argv := []string{"git", "diff", "--cached", "--name-only", "--diff-filter=ACMR", "--"}
	for _, ext := range exts {
		argv = append(argv, "*"+ext)
	}

	res := s.runner.Run(ctx, run.Spec{Argv: argv, Dir: dir})
	if !res.Ok() {
		return nil
	}

	var files []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files
}

// ShowStaged returns the staged (index) content of a file, as opposed to
// its working-tree content.
func (s *Service) ShowStaged(ctx context.Context, dir, path string) (string, error) {
	res := s.runner.Run(ctx, run.Spec{Argv: []string{"git", "show", ":" + path}, Dir: dir})
	if !res.Ok() {
		return "", fmt.Errorf("git show :%s failed: %s", path, strings.TrimSpace(res.Output()))
	}
	return res.Stdout, nil
}

// AddWorktree creates a worktree at path on a new branch. When the branch
// already exists it retries by attaching to it.
func (s *Service) AddWorktree(ctx context.Context, repoDir, path, branch string) error {
	res := s.runner.Run(ctx, run.Spec{
		Argv: []string{"git", "worktree", "add", "-b", branch, path},
		Dir:  repoDir,
	})
	if res.Ok() {
		return nil
	}

	res = s.runner.Run(ctx, run.Spec{
		Argv: []string{"git", "worktree", "add", path, branch},
		Dir:  repoDir,
	})
	if res.Ok() {
		return nil
	}
	return fmt.Errorf("creating worktree %s: %s", filepath.Base(path), strings.TrimSpace(res.Output()))
}
