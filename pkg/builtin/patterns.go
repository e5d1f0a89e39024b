package builtin

import (
	"strings"

	"github.com/arthur-debert/gantry/pkg/errors"
	"github.com/bmatcuk/doublestar/v4"
)

type pattern struct {
	glob   string
	negate bool
}

// PatternSet is an ordered list of include and exclude globs
type PatternSet struct {
	raw      []string
	patterns []pattern
}

// NewPatternSet validates and compiles patterns
func NewPatternSet(patterns ...string) (*PatternSet, error) {
	ps := &PatternSet{raw: append([]string(nil), patterns...)}
	for _, p := range patterns {
		negate := strings.HasPrefix(p, "!")
		glob := strings.TrimPrefix(p, "!")
		if glob == "" || !doublestar.ValidatePattern(glob) {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid pattern %q", p)
		}
		ps.patterns = append(ps.patterns, pattern{glob: glob, negate: negate})
	}
	return ps, nil
}

// MustPatternSet is NewPatternSet for patterns known at compile time
func MustPatternSet(patterns ...string) *PatternSet {
	ps, err := NewPatternSet(patterns...)
	if err != nil {
		panic(err)
	}
	return ps
}

// Match reports whether rel, a slash-separated relative path, is selected
func (ps *PatternSet) Match(rel string) bool {
	matched := false
	for _, p := range ps.patterns {
		if p.negate != matched {
			// an include cannot add to a match, an exclude cannot remove a miss
			continue
		}
		if ok, _ := doublestar.Match(p.glob, rel); ok {
			matched = !p.negate
		}
	}
	return matched
}

// String renders the set the way it was written
func (ps *PatternSet) String() string {
	if len(ps.raw) == 1 {
		return ps.raw[0]
	}
	return "{" + strings.Join(ps.raw, ",") + "}"
}
