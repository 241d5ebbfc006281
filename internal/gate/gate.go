// Package gate implements the pre-commit coverage gate: barrel detection
// followed by per-package coverage enforcement on staged files.
package gate

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/chmouel/hookgate/internal/barrel"
	"github.com/chmouel/hookgate/internal/classify"
	"github.com/chmouel/hookgate/internal/config"
	"github.com/chmouel/hookgate/internal/coverage"
	"github.com/chmouel/hookgate/internal/git"
	"github.com/chmouel/hookgate/internal/run"
	"github.com/chmouel/hookgate/internal/ui"
)

// Exit codes. The gate is commit-blocking and fails closed: any check
// failure, including "no coverage data", maps to ExitFailure.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Options selects what the gate run covers.
type Options struct {
	// ProjectDir is the repository root.
	ProjectDir string
	// BarrelOnly stops after barrel detection, skipping coverage.
	BarrelOnly bool
}

// Gate wires the gate's collaborators together.
type Gate struct {
	Cfg     *config.Config
	Git     *git.Service
	Exec    run.Runner
	Printer *ui.Printer
}

// Run executes the gate sequence, short-circuiting on the first failing
// stage, and returns the process exit code.
func (g *Gate) Run(ctx context.Context, opts Options) int {
	staged := g.Git.StagedFiles(ctx, opts.ProjectDir, g.Cfg.Extensions)
	if len(staged) == 0 {
		g.Printer.Infof("No staged %s files found. Skipping coverage gate.", extsLabel(g.Cfg.Extensions))
		return ExitSuccess
	}

	if barrels := g.findBarrels(opts.ProjectDir, staged); len(barrels) > 0 {
		g.Printer.Errorf("Barrel file detected (re-export only):\n")
		for _, b := range barrels {
			g.Printer.Mutedf("  %s", b)
			g.Printer.Block("Contains only re-exports. Add logic or remove the file.\n", 2)
		}
		g.Printer.Errorf("Barrel files are not allowed. Move exports to their source modules.")
		return ExitFailure
	}

	if opts.BarrelOnly {
		g.Printer.Infof("Barrel check passed. Skipping coverage (--barrel-only).")
		return ExitSuccess
	}

	classifier, err := classify.New(g.Cfg)
	if err != nil {
		g.Printer.Errorf("Invalid gate configuration: %v", err)
		return ExitFailure
	}

	testable := classifier.Testable(staged)
	if len(testable) == 0 {
		g.Printer.Infof("No testable staged files after exclusions. Skipping coverage gate.")
		return ExitSuccess
	}

	g.Printer.Infof("Running coverage check on %d file(s)...", len(testable))

	runner := &coverage.Runner{Cfg: g.Cfg, Exec: g.Exec, Stderr: g.Printer.Err}
	cov, err := runner.Run(ctx, opts.ProjectDir, classifier.GroupByPackage(testable))
	if err != nil {
		g.Printer.Errorf("Could not generate coverage data. Failing as a precaution.")
		return ExitFailure
	}

	// Only routed files face the threshold: an unrouted file has no runner
	// that could ever produce data for it.
	failures := coverage.Check(cov, classifier.Routed(testable), opts.ProjectDir, g.Cfg.Threshold)
	if len(failures) > 0 {
		g.reportFailures(failures)
		return ExitFailure
	}

	g.Printer.Successf("Coverage gate passed. All %d file(s) meet %v%% threshold.", len(testable), g.Cfg.Threshold)
	return ExitSuccess
}

// findBarrels scans the working-tree content of staged files. Files that
// vanished between staging and now are skipped; the index copy will be
// checked on the next run.
func (g *Gate) findBarrels(projectDir string, staged []string) []string {
	var barrels []string
	for _, file := range staged {
		content, err := os.ReadFile(filepath.Join(projectDir, file)) //nolint:gosec
		if err != nil {
			continue
		}
		if barrel.IsBarrel(string(content)) {
			barrels = append(barrels, file)
		}
	}
	return barrels
}

func (g *Gate) reportFailures(failures []coverage.Failure) {
	g.Printer.Errorf("\nCoverage check failed for changed files (minimum: %v%%):\n", g.Cfg.Threshold)
	for _, f := range failures {
		g.Printer.Mutedf("  %s", f.File)
		g.Printer.Mutedf("    Lines:    %d%% (%s)", round(f.Lines), status(f.LinesOK, g.Cfg.Threshold))
		g.Printer.Mutedf("    Branches: %d%% (%s)", round(f.Branches), status(f.BranchesOK, g.Cfg.Threshold))
		g.Printer.Mutedf("")
	}
	g.Printer.Errorf("Add tests for these files before committing.")
}

func round(pct float64) int {
	return int(math.Round(pct))
}

func status(ok bool, threshold float64) string {
	if ok {
		return "ok"
	}
	return fmt.Sprintf("need %v%%", threshold)
}

func extsLabel(exts []string) string {
	return strings.Join(exts, "/")
}
