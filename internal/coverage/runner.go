package coverage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chmouel/hookgate/internal/classify"
	"github.com/chmouel/hookgate/internal/config"
	"github.com/chmouel/hookgate/internal/run"
)

// ErrUnavailable means no attempt produced a coverage artifact. The gate
// fails closed on it: absence of evidence is not evidence of passing.
var ErrUnavailable = errors.New("could not generate coverage data")

// Runner produces merged coverage data for staged files grouped by
// package. Packages run strictly one after another: loading several test
// configurations at once from a shared root triggers a non-deterministic
// module-loading race in the underlying tooling, so each run is isolated
// to its own package directory.
type Runner struct {
	Cfg    *config.Config
	Exec   run.Runner
	Stderr io.Writer
}

// Run executes coverage per package and merges the results into one map
// keyed by absolute file path. Any package failing to produce data makes
// the whole run unavailable; there is no partial credit.
func (r *Runner) Run(ctx context.Context, projectDir string, groups []classify.Group) (Map, error) {
	merged := make(Map)

	for _, group := range groups {
		fmt.Fprintf(r.Stderr, "  Checking %s (%d file(s))...\n", group.Dir, len(group.Files))
		data, err := r.pkg(ctx, projectDir, group)
		if err != nil {
			return nil, err
		}
		merged.Merge(data)
	}

	return merged, nil
}

// pkg runs the test runner for one package. The fast path scopes the run
// to tests related to the staged files; when that yields no artifact, a
// full-suite run is retried up to the configured ceiling, deleting any
// stale artifact before each attempt.
func (r *Runner) pkg(ctx context.Context, projectDir string, group classify.Group) (Map, error) {
	pkgDir := filepath.Join(projectDir, group.Dir)
	artifact := filepath.Join(pkgDir, r.Cfg.Runner.CoverageFile)

	if err := removeIfExists(artifact); err != nil {
		return nil, err
	}

	r.Exec.Run(ctx, run.Spec{
		Argv:    r.Cfg.RelatedArgv(group.Files),
		Dir:     pkgDir,
		Timeout: r.Cfg.TestTimeout(),
	})

	if fileExists(artifact) {
		return Load(artifact)
	}

	for attempt := 1; attempt <= r.Cfg.MaxRetries; attempt++ {
		fmt.Fprintf(r.Stderr, "  [%s] full suite (attempt %d/%d)...\n", group.Dir, attempt, r.Cfg.MaxRetries)

		if err := removeIfExists(artifact); err != nil {
			return nil, err
		}

		r.Exec.Run(ctx, run.Spec{
			Argv:    r.Cfg.FullArgv(),
			Dir:     pkgDir,
			Timeout: r.Cfg.TestTimeout(),
		})

		if fileExists(artifact) {
			return Load(artifact)
		}

		if attempt < r.Cfg.MaxRetries {
			fmt.Fprintf(r.Stderr, "  [%s] retrying...\n", group.Dir)
		}
	}

	fmt.Fprintf(r.Stderr, "Warning: coverage file not found for %s\n", group.Dir)
	return nil, ErrUnavailable
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func removeIfExists(path string) error {
	if !fileExists(path) {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing stale coverage artifact: %w", err)
	}
	return nil
}
