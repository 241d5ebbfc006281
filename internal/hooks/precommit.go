package hooks

import (
	"context"
	"fmt"
	"strings"

	"github.com/chmouel/hookgate/internal/config"
	"github.com/chmouel/hookgate/internal/run"
)

const maxCheckOutputLines = 10

type checkFailure struct {
	name   string
	detail string
}

// preCommit intercepts git commit and runs the configured check commands
// first; any failure blocks the commit. Unlike the advisory hooks this one
// fails closed: a check that cannot run is a failed check.
func preCommit(ctx context.Context, env *Env) Decision {
	p := env.Payload
	if p.ToolName != "Bash" || p.ToolInput.Command == "" {
		return Allow
	}
	if !strings.Contains(p.ToolInput.Command, "git commit") {
		return Allow
	}
	// Message-only amends have nothing new to validate.
	if strings.Contains(p.ToolInput.Command, "--allow-empty") {
		return Allow
	}

	failed := runChecks(ctx, env, env.Cfg.Hooks.PreCommitChecks)
	if len(failed) == 0 {
		return Allow
	}

	env.Printer.Errorf("Commit blocked. The following checks failed:\n")
	reportCheckFailures(env, failed)
	env.Printer.Errorf("Fix these issues before committing.")
	return Block
}

func runChecks(ctx context.Context, env *Env, checks []config.CheckCommand) []checkFailure {
	var failed []checkFailure
	for _, check := range checks {
		res := env.Exec.Run(ctx, run.Spec{
			Argv:    check.Command,
			Dir:     env.ProjectDir,
			Timeout: env.Cfg.CheckTimeout(),
		})
		switch {
		case res.TimedOut:
			failed = append(failed, checkFailure{
				name:   check.Name,
				detail: fmt.Sprintf("timed out after %s", env.Cfg.CheckTimeout()),
			})
		case res.Err != nil:
			failed = append(failed, checkFailure{
				name:   check.Name,
				detail: fmt.Sprintf("command not found: %s", check.Command[0]),
			})
		case res.ExitCode != 0:
			failed = append(failed, checkFailure{
				name:   check.Name,
				detail: strings.TrimSpace(res.Output()),
			})
		}
	}
	return failed
}

func reportCheckFailures(env *Env, failed []checkFailure) {
	for _, f := range failed {
		env.Printer.Mutedf("  ✗ %s:", f.name)
		lines := strings.Split(f.detail, "\n")
		if len(lines) > maxCheckOutputLines {
			lines = lines[:maxCheckOutputLines]
		}
		for _, line := range lines {
			env.Printer.Mutedf("    %s", line)
		}
		env.Printer.Mutedf("")
	}
}
