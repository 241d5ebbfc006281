package hooks

import (
	"context"
	"strings"
)

// postMerge validates the tree right after a merge instead of waiting for
// the next commit attempt. The merge has already happened, so this only
// warns; the pre-commit hook will block the next commit if the problems
// persist.
func postMerge(ctx context.Context, env *Env) Decision {
	p := env.Payload
	if p.ToolName != "Bash" || p.ToolInput.Command == "" {
		return Allow
	}
	if !strings.Contains(p.ToolInput.Command, "git merge") {
		return Allow
	}

	// Conflicted or no-op merges have nothing to validate.
	combined := p.ToolOutput.Stdout + p.ToolOutput.Stderr
	if strings.Contains(combined, "CONFLICT") || strings.Contains(p.ToolOutput.Stdout, "Already up to date") {
		return Allow
	}

	failed := runChecks(ctx, env, env.Cfg.Hooks.PostMergeChecks)
	if len(failed) == 0 {
		return Allow
	}

	env.Printer.Warnf("\nPost-merge validation failed. The merge succeeded but these checks fail:\n")
	reportCheckFailures(env, failed)
	env.Printer.Warnf("Consider reverting the merge (git revert -m 1 HEAD) or fixing the issues before continuing.")
	return Allow
}
