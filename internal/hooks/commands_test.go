package hooks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/hookgate/internal/run"
)

func TestPreCommitAllChecksPass(t *testing.T) {
	f := newEnv(t, bashPayload(`git commit -m "feat: x"`))

	decision := preCommit(context.Background(), f.env)

	assert.Equal(t, Allow, decision)
	assert.Equal(t, 4, f.fake.CallCount(), "typecheck, lint, build, coverage-gate")
	assert.Equal(t, f.env.ProjectDir, f.fake.Calls[0].Dir)
	assert.Equal(t, f.env.Cfg.CheckTimeout(), f.fake.Calls[0].Timeout)
}

func TestPreCommitBlocksOnFailure(t *testing.T) {
	f := newEnv(t, bashPayload(`git commit -m "feat: x"`))
	f.fake.Handler = func(spec run.Spec) run.Result {
		if spec.Argv[1] == "typecheck" {
			return run.Result{ExitCode: 2, Stderr: "src/a.ts(3,1): error TS2322"}
		}
		return run.Result{}
	}

	decision := preCommit(context.Background(), f.env)

	assert.Equal(t, Block, decision)
	assert.Contains(t, f.errOut.String(), "Commit blocked")
	assert.Contains(t, f.errOut.String(), "✗ typecheck:")
	assert.Contains(t, f.errOut.String(), "TS2322")
	assert.Equal(t, 4, f.fake.CallCount(), "all checks run so every failure is reported")
}

func TestPreCommitReportsTimeoutAndMissingCommand(t *testing.T) {
	f := newEnv(t, bashPayload("git commit"))
	f.fake.Handler = func(spec run.Spec) run.Result {
		switch spec.Argv[1] {
		case "typecheck":
			return run.Result{TimedOut: true, ExitCode: -1}
		case "lint":
			return run.Result{ExitCode: -1, Err: errors.New("exec: not found")}
		}
		return run.Result{}
	}

	decision := preCommit(context.Background(), f.env)

	assert.Equal(t, Block, decision)
	assert.Contains(t, f.errOut.String(), "timed out after 2m0s")
	assert.Contains(t, f.errOut.String(), "command not found: pnpm")
}

func TestPreCommitSkipsMessageOnlyAmend(t *testing.T) {
	f := newEnv(t, bashPayload(`git commit --amend --allow-empty -m "feat: reworded"`))

	assert.Equal(t, Allow, preCommit(context.Background(), f.env))
	assert.Zero(t, f.fake.CallCount())
}

func TestPreCommitIgnoresNonCommitCommands(t *testing.T) {
	f := newEnv(t, bashPayload("git push"))

	assert.Equal(t, Allow, preCommit(context.Background(), f.env))
	assert.Zero(t, f.fake.CallCount())
}

func TestPreCommitTruncatesLongOutput(t *testing.T) {
	f := newEnv(t, bashPayload("git commit"))
	long := strings.Repeat("error line\n", 30)
	f.fake.Handler = func(spec run.Spec) run.Result {
		if spec.Argv[1] == "build" {
			return run.Result{ExitCode: 1, Stderr: long}
		}
		return run.Result{}
	}

	preCommit(context.Background(), f.env)

	assert.LessOrEqual(t, strings.Count(f.errOut.String(), "error line"), maxCheckOutputLines)
}

func TestNotifyMissingBinaryIsSilent(t *testing.T) {
	prev := run.LookupPath
	run.LookupPath = func(string) (string, error) { return "", errors.New("not found") }
	t.Cleanup(func() { run.LookupPath = prev })

	f := newEnv(t, &Payload{Type: "stop_response"})

	assert.Equal(t, Allow, notify(context.Background(), f.env))
	assert.Zero(t, f.fake.CallCount())
}

func TestNotifySendsKnownEvent(t *testing.T) {
	prev := run.LookupPath
	run.LookupPath = func(string) (string, error) { return "/usr/bin/notify-send", nil }
	t.Cleanup(func() { run.LookupPath = prev })

	f := newEnv(t, &Payload{Type: "stop_response", Message: "done with the task"})

	assert.Equal(t, Allow, notify(context.Background(), f.env))
	require.Equal(t, 1, f.fake.CallCount())
	assert.Equal(t, []string{"notify-send", "--app-name=hookgate", "Task complete", "done with the task"}, f.fake.Calls[0].Argv)
}

func TestNotifyUnknownEventGetsGenericTitle(t *testing.T) {
	prev := run.LookupPath
	run.LookupPath = func(string) (string, error) { return "/usr/bin/notify-send", nil }
	t.Cleanup(func() { run.LookupPath = prev })

	f := newEnv(t, &Payload{Type: "mystery"})

	notify(context.Background(), f.env)

	require.Equal(t, 1, f.fake.CallCount())
	assert.Equal(t, "Event: mystery", f.fake.Calls[0].Argv[2])
	assert.Equal(t, "The session needs your attention.", f.fake.Calls[0].Argv[3])
}

func TestWorktreeSetup(t *testing.T) {
	f := newEnv(t, &Payload{Name: "feature-x"})

	decision := worktreeSetup(context.Background(), f.env)

	assert.Equal(t, Allow, decision)
	require.Equal(t, 2, f.fake.CallCount(), "worktree add + dependency install")
	assert.Equal(t, "git", f.fake.Calls[0].Argv[0])
	assert.Contains(t, f.fake.Calls[0].Argv, "worktree/feature-x")
	assert.Equal(t, []string{"pnpm", "install"}, f.fake.Calls[1].Argv)
	assert.Contains(t, f.out.String(), "feature-x", "absolute worktree path goes to stdout")
}

func TestWorktreeSetupMissingName(t *testing.T) {
	f := newEnv(t, &Payload{})

	assert.Equal(t, Fail, worktreeSetup(context.Background(), f.env))
	assert.Contains(t, f.errOut.String(), "No worktree name")
}

func TestWorktreeSetupGitFailure(t *testing.T) {
	f := newEnv(t, &Payload{Name: "feature-x"})
	f.fake.Handler = func(spec run.Spec) run.Result {
		return run.Result{ExitCode: 128, Stderr: "fatal: not a git repository"}
	}

	assert.Equal(t, Fail, worktreeSetup(context.Background(), f.env))
	assert.Contains(t, f.errOut.String(), "Error creating worktree")
}

func TestWorktreeSetupInstallFailureIsNonFatal(t *testing.T) {
	f := newEnv(t, &Payload{Name: "feature-x"})
	f.fake.Handler = func(spec run.Spec) run.Result {
		if spec.Argv[0] == "pnpm" {
			return run.Result{ExitCode: 1, Stderr: "registry unreachable"}
		}
		return run.Result{}
	}

	decision := worktreeSetup(context.Background(), f.env)

	assert.Equal(t, Allow, decision)
	assert.Contains(t, f.errOut.String(), "install failed")
	assert.Contains(t, f.out.String(), "feature-x")
}
