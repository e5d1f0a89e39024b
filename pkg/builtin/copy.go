package builtin

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/gantry/pkg/environment"
	"github.com/arthur-debert/gantry/pkg/errors"
	"github.com/arthur-debert/gantry/pkg/logging"
	"github.com/rs/zerolog"
)

// Copy copies the files under Src selected by Patterns into Dest, keeping
// their relative layout
type Copy struct {
	Src      string
	Dest     string
	Patterns *PatternSet
	// Label is the project-relative rendering used in plan listings
	Label  string
	logger zerolog.Logger
}

// NewCopy creates a copy action. src and dest are absolute.
func NewCopy(src, dest string, patterns *PatternSet, label string) *Copy {
	return &Copy{
		Src:      src,
		Dest:     dest,
		Patterns: patterns,
		Label:    label,
		logger:   logging.GetLogger("builtin.copy"),
	}
}

// Describe renders the action for plan listings
func (c *Copy) Describe() string {
	if c.Label != "" {
		return "copy " + c.Label
	}
	return fmt.Sprintf("copy %s/%s -> %s", c.Src, c.Patterns, c.Dest)
}

// Run performs the copy. A missing source directory copies nothing.
func (c *Copy) Run(ctx context.Context, env environment.Environment) error {
	if _, err := os.Stat(c.Src); os.IsNotExist(err) {
		c.logger.Warn().Str("src", c.Src).Msg("Source directory does not exist, nothing to copy")
		return nil
	}

	copied := 0
	err := filepath.WalkDir(c.Src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(c.Src, path)
		if err != nil {
			return err
		}
		if !c.Patterns.Match(filepath.ToSlash(rel)) {
			return nil
		}

		target := filepath.Join(c.Dest, rel)
		if err := copyFile(path, target); err != nil {
			return err
		}
		copied++
		c.logger.Trace().Str("file", rel).Msg("Copied")
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrBuiltinFailure, "failed to copy from %s", c.Src).
			WithDetail("src", c.Src).
			WithDetail("dest", c.Dest)
	}

	if copied == 0 {
		c.logger.Warn().Str("src", c.Src).Str("patterns", c.Patterns.String()).Msg("No files matched")
	} else {
		c.logger.Info().Int("files", copied).Str("dest", c.Dest).Msg("Files copied")
	}
	return nil
}

func copyFile(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
