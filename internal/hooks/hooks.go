// Package hooks implements the agent-host hooks: small one-shot checks
// that read a JSON payload describing a tool invocation and answer with an
// exit code. Advisory hooks always allow and at most warn; policy hooks
// block.
package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/chmouel/hookgate/internal/config"
	"github.com/chmouel/hookgate/internal/git"
	"github.com/chmouel/hookgate/internal/run"
	"github.com/chmouel/hookgate/internal/ui"
)

// Decision is a hook's verdict, expressed as the host's exit-code
// convention: 0 allows the tool call, 2 blocks it, 1 reports a hook error.
type Decision int

const (
	Allow Decision = iota
	Fail
	Block
)

// ExitCode maps the decision to the process exit code.
func (d Decision) ExitCode() int {
	switch d {
	case Block:
		return 2
	case Fail:
		return 1
	default:
		return 0
	}
}

// Payload is the JSON document the host writes to a hook's stdin. Fields
// are populated depending on the event; hooks ignore what they don't need.
type Payload struct {
	ToolName   string     `json:"tool_name"`
	ToolInput  ToolInput  `json:"tool_input"`
	ToolOutput ToolOutput `json:"tool_output"`

	// Notification events.
	Type    string `json:"type"`
	Message string `json:"message"`

	// Worktree events.
	Name string `json:"name"`

	Cwd string `json:"cwd"`
}

// ToolInput carries the arguments of the intercepted tool call.
type ToolInput struct {
	Command  string `json:"command"`
	FilePath string `json:"file_path"`
}

// ToolOutput carries the result of an already-executed tool call
// (post-tool hooks only).
type ToolOutput struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// Decode parses a payload from r.
func Decode(r io.Reader) (*Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("invalid JSON input: %w", err)
	}
	return &p, nil
}

// Env is everything a hook may need at run time.
type Env struct {
	Cfg        *config.Config
	Payload    *Payload
	ProjectDir string
	Git        *git.Service
	Exec       run.Runner
	Printer    *ui.Printer
	// Stdout is for output the host consumes (worktree path); diagnostics
	// go through Printer.
	Stdout io.Writer
}

// Hook is one registered hook.
type Hook struct {
	Name  string
	Usage string
	// StrictInput makes a malformed payload a hook error instead of a
	// silent allow.
	StrictInput bool
	Run         func(ctx context.Context, env *Env) Decision
}

// registry is ordered for help output.
var registry = []Hook{
	{Name: "block-no-verify", Usage: "Reject git commands that bypass hooks with --no-verify", StrictInput: true, Run: blockNoVerify},
	{Name: "commit-message", Usage: "Enforce conventional commit message format", Run: commitMessage},
	{Name: "kebab-case", Usage: "Enforce kebab-case file naming on Write/Edit", StrictInput: true, Run: kebabCase},
	{Name: "any-types", Usage: "Block commits with explicit TypeScript any types", Run: anyTypes},
	{Name: "arrow-functions", Usage: "Warn about function keyword declarations (advisory)", Run: arrowFunctions},
	{Name: "biome-check", Usage: "Run the formatter on written files (advisory)", Run: biomeCheck},
	{Name: "pre-commit", Usage: "Run the commit checks before allowing git commit", Run: preCommit},
	{Name: "post-merge", Usage: "Validate the tree after a merge (advisory)", Run: postMerge},
	{Name: "notify", Usage: "Send a desktop notification for host events", Run: notify},
	{Name: "worktree-setup", Usage: "Create and provision a managed worktree", StrictInput: true, Run: worktreeSetup},
}

// Lookup finds a hook by name.
func Lookup(name string) (Hook, bool) {
	for _, h := range registry {
		if h.Name == name {
			return h, true
		}
	}
	return Hook{}, false
}

// All returns the registered hooks in order.
func All() []Hook {
	return registry
}
