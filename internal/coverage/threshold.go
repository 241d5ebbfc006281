package coverage

import "path/filepath"

// Failure records one file's threshold violation. Percentages are the
// unrounded values; reporting rounds them.
type Failure struct {
	File       string
	Lines      float64
	Branches   float64
	LinesOK    bool
	BranchesOK bool
}

// Check evaluates every testable file against the threshold and returns
// all violations together; it never stops at the first one. A file absent
// from the coverage map counts as 0% on both axes: no data is not
// passing data.
func Check(cov Map, files []string, projectDir string, threshold float64) []Failure {
	var failures []Failure

	for _, file := range files {
		absPath := file
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(projectDir, file)
		}

		fc, ok := cov[absPath]
		if !ok {
			failures = append(failures, Failure{File: file})
			continue
		}

		linePct := fc.LinePercent()
		branchPct := fc.BranchPercent()
		linesOK := linePct >= threshold
		branchesOK := branchPct >= threshold

		if !linesOK || !branchesOK {
			failures = append(failures, Failure{
				File:       file,
				Lines:      linePct,
				Branches:   branchPct,
				LinesOK:    linesOK,
				BranchesOK: branchesOK,
			})
		}
	}

	return failures
}
