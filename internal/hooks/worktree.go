package hooks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chmouel/hookgate/internal/run"
)

// worktreeSetup creates a managed worktree on branch worktree/<name>,
// installs dependencies in it, and prints the absolute worktree path to
// stdout, the one piece of output the host consumes.
func worktreeSetup(ctx context.Context, env *Env) Decision {
	name := env.Payload.Name
	if name == "" {
		env.Printer.Errorf("No worktree name provided")
		return Fail
	}

	base := filepath.Join(env.ProjectDir, env.Cfg.Hooks.WorktreeDir)
	path := filepath.Join(base, name)
	branch := "worktree/" + name

	if err := os.MkdirAll(base, 0o750); err != nil {
		env.Printer.Errorf("Creating worktree base directory: %v", err)
		return Fail
	}

	if err := env.Git.AddWorktree(ctx, env.ProjectDir, path, branch); err != nil {
		env.Printer.Errorf("Error creating worktree: %v", err)
		return Fail
	}

	// Dependency install is best effort; a broken install is fixable from
	// inside the worktree, a missing worktree is not.
	if install := env.Cfg.Hooks.InstallCommand; len(install) > 0 {
		env.Printer.Warnf("Installing dependencies in worktree...")
		res := env.Exec.Run(ctx, run.Spec{
			Argv:    install,
			Dir:     path,
			Timeout: env.Cfg.CheckTimeout(),
		})
		switch {
		case res.Err != nil:
			env.Printer.Warnf("Warning: %s not found, skipping install", install[0])
		case res.TimedOut:
			env.Printer.Warnf("Warning: dependency install timed out")
		case res.ExitCode != 0:
			env.Printer.Warnf("Warning: dependency install failed: %s", res.Output())
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fmt.Fprintln(env.Stdout, abs)
	return Allow
}
