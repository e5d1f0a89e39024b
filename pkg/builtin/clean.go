package builtin

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/gantry/pkg/environment"
	"github.com/arthur-debert/gantry/pkg/errors"
	"github.com/arthur-debert/gantry/pkg/logging"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// Clean removes every path under Root matched by one of Patterns
type Clean struct {
	Root     string
	Patterns []string
	logger   zerolog.Logger
}

// NewClean creates a clean action. root is absolute; patterns are relative
// to it and may not contain negations.
func NewClean(root string, patterns ...string) (*Clean, error) {
	for _, p := range patterns {
		if strings.HasPrefix(p, "!") || !doublestar.ValidatePattern(p) {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid clean pattern %q", p)
		}
	}
	return &Clean{
		Root:     root,
		Patterns: append([]string(nil), patterns...),
		logger:   logging.GetLogger("builtin.clean"),
	}, nil
}

// MustClean is NewClean for patterns known at compile time
func MustClean(root string, patterns ...string) *Clean {
	c, err := NewClean(root, patterns...)
	if err != nil {
		panic(err)
	}
	return c
}

// Describe renders the action for plan listings
func (c *Clean) Describe() string {
	return "clean " + strings.Join(c.Patterns, " ")
}

// Run removes the matched paths. Nothing matching is not an error.
func (c *Clean) Run(ctx context.Context, env environment.Environment) error {
	if _, err := os.Stat(c.Root); os.IsNotExist(err) {
		return nil
	}

	fsys := os.DirFS(c.Root)
	var matches []string
	for _, p := range c.Patterns {
		found, err := doublestar.Glob(fsys, p)
		if err != nil {
			return errors.Wrapf(err, errors.ErrBuiltinFailure, "failed to expand %q", p)
		}
		matches = append(matches, found...)
	}

	// parents first, so RemoveAll takes whole trees and children become no-ops
	sort.Slice(matches, func(i, j int) bool {
		if len(matches[i]) != len(matches[j]) {
			return len(matches[i]) < len(matches[j])
		}
		return matches[i] < matches[j]
	})

	removed := 0
	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrBuiltinFailure, "clean interrupted")
		}
		target := filepath.Join(c.Root, filepath.FromSlash(rel))
		if _, err := os.Lstat(target); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(target); err != nil {
			return errors.Wrapf(err, errors.ErrBuiltinFailure, "failed to remove %s", rel).
				WithDetail("path", target)
		}
		removed++
	}

	c.logger.Info().Int("removed", removed).Strs("patterns", c.Patterns).Msg("Clean finished")
	return nil
}
