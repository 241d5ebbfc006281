package hooks

import (
	"context"
	"regexp"
	"strings"
)

const maxAnyViolationsShown = 20

// anyPattern catches explicit TypeScript `any` usage: annotations,
// assertions, generic parameters, array and union forms.
var anyPattern = regexp.MustCompile(
	`(:\s*any\b)|(\bas\s+any\b)|(<any[\s,>])|(\bany\s*\[\])|(\bany\s*\|)|(\|\s*any\b)`,
)

var commentLine = regexp.MustCompile(`^\s*(//|/?\*)`)

type anyViolation struct {
	file string
	line int
	text string
}

// anyTypes blocks git commit when staged TypeScript files contain explicit
// `any` types. It scans the staged content, not the working tree, so what
// is checked is exactly what would land in the commit.
func anyTypes(ctx context.Context, env *Env) Decision {
	p := env.Payload
	if p.ToolName != "Bash" || !strings.Contains(p.ToolInput.Command, "git commit") {
		return Allow
	}

	staged := env.Git.StagedFiles(ctx, env.ProjectDir, []string{".ts", ".tsx"})
	var files []string
	for _, f := range staged {
		if !strings.HasSuffix(f, ".d.ts") {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return Allow
	}

	var violations []anyViolation
	for _, file := range files {
		content, err := env.Git.ShowStaged(ctx, env.ProjectDir, file)
		if err != nil {
			continue
		}
		for i, line := range strings.Split(content, "\n") {
			if commentLine.MatchString(strings.TrimSpace(line)) {
				continue
			}
			if anyPattern.MatchString(line) {
				text := strings.TrimSpace(line)
				if len(text) > 120 {
					text = text[:120]
				}
				violations = append(violations, anyViolation{file: file, line: i + 1, text: text})
			}
		}
	}

	if len(violations) == 0 {
		return Allow
	}

	env.Printer.Errorf("Commit blocked: explicit `any` types found:\n")
	shown := violations
	if len(shown) > maxAnyViolationsShown {
		shown = shown[:maxAnyViolationsShown]
	}
	for _, v := range shown {
		env.Printer.Mutedf("  %s:%d", v.file, v.line)
		env.Printer.Mutedf("    %s", v.text)
	}
	if extra := len(violations) - len(shown); extra > 0 {
		env.Printer.Mutedf("\n  ... and %d more violations", extra)
	}
	env.Printer.Errorf("\nReplace `any` with a proper type. No explicit `any` is allowed.")
	return Block
}
