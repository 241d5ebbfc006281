package hooks

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const maxArrowWarningsShown = 5

var funcDecl = regexp.MustCompile(`^\s*(export\s+)?(export\s+default\s+)?(async\s+)?function\s+\w+`)

// arrowSkipPatterns excludes config and generated files where function
// declarations are conventional.
var arrowSkipPatterns = []string{
	"config", ".config.", "next.config", "vitest.config",
	"tsup.config", "tailwind.config", "postcss.config",
	"generated", ".d.ts",
}

// arrowFunctions is an advisory style check: it warns when a written file
// declares functions with the function keyword instead of arrow syntax,
// and always allows.
func arrowFunctions(_ context.Context, env *Env) Decision {
	p := env.Payload
	if p.ToolName != "Write" && p.ToolName != "Edit" {
		return Allow
	}
	path := p.ToolInput.FilePath
	if path == "" {
		return Allow
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".tsx", ".js", ".jsx":
	default:
		return Allow
	}

	basename := filepath.Base(path)
	for _, pat := range arrowSkipPatterns {
		if strings.Contains(basename, pat) {
			return Allow
		}
	}

	content, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return Allow
	}

	type warning struct {
		line int
		text string
	}
	var warnings []warning
	for i, line := range strings.Split(string(content), "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "//") || strings.HasPrefix(stripped, "*") || strings.HasPrefix(stripped, "/*") {
			continue
		}
		if funcDecl.MatchString(line) {
			if len(stripped) > 80 {
				stripped = stripped[:80]
			}
			warnings = append(warnings, warning{line: i + 1, text: stripped})
		}
	}

	if len(warnings) == 0 {
		return Allow
	}

	env.Printer.Warnf("Arrow function style violation in %s:", basename)
	shown := warnings
	if len(shown) > maxArrowWarningsShown {
		shown = shown[:maxArrowWarningsShown]
	}
	for _, w := range shown {
		env.Printer.Mutedf("  Line %d: %s", w.line, w.text)
	}
	if extra := len(warnings) - len(shown); extra > 0 {
		env.Printer.Mutedf("  ... and %d more", extra)
	}
	env.Printer.Mutedf("")
	env.Printer.Mutedf("Use arrow functions: const foo = () => { ... }")
	return Allow
}
