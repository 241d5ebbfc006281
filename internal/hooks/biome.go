package hooks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chmouel/hookgate/internal/run"
)

const formatterTimeout = 25 * time.Second

// biomeCheck runs the configured formatter on a file after Write/Edit.
// Advisory: formatter problems, a missing binary or a timeout all warn and
// allow.
func biomeCheck(ctx context.Context, env *Env) Decision {
	p := env.Payload
	if p.ToolName != "Write" && p.ToolName != "Edit" {
		return Allow
	}
	path := p.ToolInput.FilePath
	if path == "" {
		return Allow
	}

	ext := strings.ToLower(filepath.Ext(path))
	matched := false
	for _, e := range env.Cfg.Hooks.FormatterExtensions {
		if ext == e {
			matched = true
			break
		}
	}
	if !matched {
		return Allow
	}

	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return Allow
	}

	argv := append(append([]string{}, env.Cfg.Hooks.FormatterCommand...), path)
	res := env.Exec.Run(ctx, run.Spec{Argv: argv, Timeout: formatterTimeout})

	switch {
	case res.Err != nil:
		env.Printer.Warnf("Formatter not found, skipping check")
	case res.TimedOut:
		env.Printer.Warnf("Formatter check timed out")
	case res.ExitCode != 0:
		env.Printer.Warnf("Formatter reported issues for %s:", filepath.Base(path))
		if out := strings.TrimSpace(res.Output()); out != "" {
			env.Printer.Block(out, 1)
		}
	}

	return Allow
}
