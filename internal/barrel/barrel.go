// Package barrel detects barrel files: modules whose entire content is
// re-exports of other modules, with no original logic.
package barrel

import (
	"regexp"
	"strings"
)

var (
	// reExport matches a line that is purely a re-export:
	//   export * from "./x";
	//   export { a, b } from './y'
	//   export type { T } from "./z";
	reExport = regexp.MustCompile(`^\s*export\s+(?:\*|(?:type\s+)?\{[^}]*\})\s+from\s+["'][^"']+["'];?\s*$`)
	comment  = regexp.MustCompile(`^\s*(?://|/\*|\*)`)
	blank    = regexp.MustCompile(`^\s*$`)
)

// IsBarrel reports whether content consists of nothing but re-export
// statements, blank lines and comments. An empty file is not a barrel, nor
// is a file of only comments: at least one re-export must be present, and
// any other code line anywhere disqualifies the file.
func IsBarrel(content string) bool {
	hasExport := false

	for _, line := range strings.Split(content, "\n") {
		if blank.MatchString(line) || comment.MatchString(line) {
			continue
		}
		if strings.TrimSpace(line) == "*/" {
			continue
		}
		if reExport.MatchString(line) {
			hasExport = true
			continue
		}
		return false
	}

	return hasExport
}
