package engine

import (
	"fmt"

	"github.com/gobwas/glob"
)

// MatchPattern reports whether the label matches a glob pattern. Matching is
// case-sensitive and anchored to the full string: a pattern must carry its
// own wildcards (e.g. "*foot*") to behave like a substring search.
func MatchPattern(label, pattern string) (bool, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return g.Match(label), nil
}

// FilterRowsByPattern walks every row of the source in row order and returns
// the ordered subset whose label matches the pattern. It never mutates
// engine state; feeding the result into SetVisible is the caller's call.
func (e *Engine) FilterRowsByPattern(pattern string) ([]int, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	count := e.source.RowCount()
	rows := make([]int, 0, count)
	for row := 0; row < count; row++ {
		if g.Match(e.source.Label(row)) {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
