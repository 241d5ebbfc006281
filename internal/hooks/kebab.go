package hooks

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// kebabPattern: lowercase letters, digits and hyphens, starting with a
// letter.
var kebabPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

var upperBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// kebabCase blocks Write/Edit calls that would create files outside the
// kebab-case naming convention, with configured exceptions for router
// files, dotfiles and ALL_CAPS documents.
func kebabCase(_ context.Context, env *Env) Decision {
	p := env.Payload
	if p.ToolName != "Write" && p.ToolName != "Edit" {
		return Allow
	}
	path := p.ToolInput.FilePath
	if path == "" {
		return Allow
	}

	for _, dir := range env.Cfg.Hooks.NamingExemptDirs {
		for _, part := range strings.Split(path, string(filepath.Separator)) {
			if part == dir {
				return Allow
			}
		}
	}

	filename := filepath.Base(path)
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	if name == "" {
		// Dotfiles like .gitignore: the whole name is the "extension".
		name = filename
		ext = ""
	}

	for _, pattern := range env.Cfg.Hooks.NamingExceptions {
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		if re.MatchString(name) {
			return Allow
		}
	}

	// Dotted names like tsup.config are fine when every segment is
	// kebab-case on its own.
	if strings.Contains(name, ".") {
		allValid := true
		for _, seg := range strings.Split(name, ".") {
			if !kebabPattern.MatchString(seg) {
				allValid = false
				break
			}
		}
		if allValid {
			return Allow
		}
	}

	if kebabPattern.MatchString(name) {
		return Allow
	}

	env.Printer.Errorf("File name %q does not follow kebab-case naming convention.", filename)
	env.Printer.Mutedf("")
	switch {
	case strings.ContainsFunc(name, unicode.IsUpper):
		suggestion := strings.ToLower(upperBoundary.ReplaceAllString(name, "$1-$2"))
		env.Printer.Mutedf("Suggestion: %q", suggestion+ext)
	case strings.Contains(name, "_"):
		env.Printer.Mutedf("Suggestion: replace underscores with hyphens")
	}
	env.Printer.Mutedf("")
	env.Printer.Mutedf("Required format: lowercase-with-hyphens.ext")
	env.Printer.Mutedf("Examples: send-message.ts, api-client.ts")
	return Block
}
