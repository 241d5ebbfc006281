// Package coverage runs the per-package test runner and evaluates
// istanbul-format coverage data against the gate threshold.
package coverage

import (
	"encoding/json"
	"fmt"
	"os"
)

// FileCoverage is one file's entry in an istanbul coverage-final.json
// artifact. Only the execution counters matter to the gate; location maps
// are ignored.
type FileCoverage struct {
	// Statements maps statement id to execution count.
	Statements map[string]int `json:"s"`
	// Branches maps branch id to the ordered per-arm execution counts.
	Branches map[string][]int `json:"b"`
}

// LinePercent returns the statement coverage percentage. Zero statements
// is a vacuous 100%.
func (f FileCoverage) LinePercent() float64 {
	if len(f.Statements) == 0 {
		return 100
	}
	covered := 0
	for _, count := range f.Statements {
		if count > 0 {
			covered++
		}
	}
	return float64(covered) / float64(len(f.Statements)) * 100
}

// BranchPercent returns the branch-arm coverage percentage. Zero branch
// arms is a vacuous 100%.
func (f FileCoverage) BranchPercent() float64 {
	total, covered := 0, 0
	for _, arms := range f.Branches {
		for _, count := range arms {
			total++
			if count > 0 {
				covered++
			}
		}
	}
	if total == 0 {
		return 100
	}
	return float64(covered) / float64(total) * 100
}

// Map is merged coverage data keyed by absolute source file path.
type Map map[string]FileCoverage

// Load reads an istanbul coverage artifact.
func Load(path string) (Map, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading coverage artifact: %w", err)
	}

	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing coverage artifact %q: %w", path, err)
	}
	return m, nil
}

// Merge copies other's entries into m. Keys are absolute paths and each
// file lives under exactly one package subtree, so new keys only; existing
// entries are never overwritten.
func (m Map) Merge(other Map) {
	for path, fc := range other {
		if _, exists := m[path]; exists {
			continue
		}
		m[path] = fc
	}
}
