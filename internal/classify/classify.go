// Package classify decides, from a path string alone, whether a staged
// file carries a coverage obligation and which package's test runner owns
// it.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/chmouel/hookgate/internal/config"
)

// Group is the set of staged files routed to one package, with paths
// relative to that package directory.
type Group struct {
	Dir   string
	Files []string
}

// Classifier applies the ordered exclusion patterns and routing table from
// the configuration.
type Classifier struct {
	exts    []string
	exclude []*regexp.Regexp
	routes  []config.PackageRoute
}

// New compiles the exclusion patterns from cfg.
func New(cfg *config.Config) (*Classifier, error) {
	c := &Classifier{
		exts:   cfg.Extensions,
		routes: cfg.Packages,
	}
	for _, pattern := range cfg.Exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		c.exclude = append(c.exclude, re)
	}
	return c, nil
}

// Excluded reports whether path matches any exclusion pattern. One match
// suffices; the outcome is independent of pattern order.
func (c *Classifier) Excluded(path string) bool {
	for _, re := range c.exclude {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// hasExtension reports whether path ends with one of the configured
// extensions.
func (c *Classifier) hasExtension(path string) bool {
	for _, ext := range c.exts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Testable filters staged paths to those that carry a coverage obligation.
func (c *Classifier) Testable(paths []string) []string {
	var out []string
	for _, p := range paths {
		if c.hasExtension(p) && !c.Excluded(p) {
			out = append(out, p)
		}
	}
	return out
}

// Route returns the owning package directory for path and the path
// relative to it. The first matching prefix in the routing table wins; a
// path matching no prefix is not routed anywhere.
func (c *Classifier) Route(path string) (dir, rel string, ok bool) {
	for _, route := range c.routes {
		if strings.HasPrefix(path, route.Prefix) {
			return route.Dir, strings.TrimPrefix(path, route.Prefix), true
		}
	}
	return "", "", false
}

// Routed filters paths to those owned by some package. A file matching no
// routing prefix has no test runner and therefore no way to produce
// coverage data; it is exempt from the gate rather than condemned to fail
// it.
func (c *Classifier) Routed(paths []string) []string {
	var out []string
	for _, p := range paths {
		if _, _, ok := c.Route(p); ok {
			out = append(out, p)
		}
	}
	return out
}

// GroupByPackage routes testable files to their packages, preserving the
// routing-table order. Unrouted files are dropped: no test runner exists
// for them.
func (c *Classifier) GroupByPackage(paths []string) []Group {
	byDir := make(map[string][]string)
	for _, p := range paths {
		dir, rel, ok := c.Route(p)
		if !ok {
			continue
		}
		byDir[dir] = append(byDir[dir], rel)
	}

	var groups []Group
	seen := make(map[string]bool)
	for _, route := range c.routes {
		if seen[route.Dir] {
			continue
		}
		seen[route.Dir] = true
		if files, ok := byDir[route.Dir]; ok {
			groups = append(groups, Group{Dir: route.Dir, Files: files})
		}
	}
	return groups
}
