// Package repair rewrites legacy HTML comment delimiters into the canonical
// comment syntax. Running a repair twice leaves the second run with nothing
// to do.
package repair

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/conneroisu/specgen/internal/errors"
	"github.com/conneroisu/specgen/internal/logging"
	"github.com/conneroisu/specgen/internal/rules"
)

// TemplatePrefix marks template files.
const TemplatePrefix = "TEMPLATE-"

// Options controls a tree repair.
type Options struct {
	// Extension selects files by extension, without the dot.
	Extension string
	// TemplatesOnly restricts the walk to TEMPLATE-* files.
	TemplatesOnly bool
	// DryRun reports what would change without writing.
	DryRun bool
}

// Failure records a file that could not be repaired.
type Failure struct {
	Path string
	Err  error
}

// Report summarizes a tree repair.
type Report struct {
	Fixed     []string
	Unchanged int
	Failures  []Failure
}

// Repairer converts comment delimiters using one rule table.
type Repairer struct {
	canonical rules.Comment
	legacy    rules.Comment
	logger    logging.Logger
}

// New creates a repairer. A nil logger discards output.
func New(rs *rules.RuleSet, logger logging.Logger) *Repairer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Repairer{
		canonical: rs.Canonical,
		legacy:    rs.Legacy,
		logger:    logger.WithComponent("repair"),
	}
}

// Fix returns text with every legacy delimiter replaced and any unclosed
// canonical comment closed at the end. The flag reports a change.
func (r *Repairer) Fix(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, r.legacy.Open) {
			line = strings.Replace(line, r.legacy.Open, r.canonical.Open, 1)
		}
		if strings.HasSuffix(strings.TrimSpace(line), r.legacy.Close) {
			idx := strings.LastIndex(line, r.legacy.Close)
			line = line[:idx] + r.canonical.Close + line[idx+len(r.legacy.Close):]
		}
		lines[i] = line
	}
	fixed := strings.Join(lines, "\n")

	fixed = strings.ReplaceAll(fixed, r.legacy.Open, r.canonical.Open)
	fixed = strings.ReplaceAll(fixed, r.legacy.Close, r.canonical.Close)

	if missing := strings.Count(fixed, r.canonical.Open) - strings.Count(fixed, r.canonical.Close); missing > 0 {
		if !strings.HasSuffix(fixed, "\n") {
			fixed += "\n"
		}
		fixed += strings.Repeat(r.canonical.Close+"\n", missing)
	}

	return fixed, fixed != text
}

// FixFile repairs one file in place unless dryRun is set.
func (r *Repairer) FixFile(path string, dryRun bool) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, errors.WrapFileRead(err, path)
	}

	fixed, changed := r.Fix(string(data))
	if !changed || dryRun {
		return changed, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, errors.WrapFileRead(err, path)
	}
	if err := os.WriteFile(path, []byte(fixed), info.Mode().Perm()); err != nil {
		return false, errors.WrapIO(err, errors.ErrCodeWriteFailed, "failed to write repaired file").WithPath(path)
	}
	return true, nil
}

// FixTree repairs every matching file under root. A failing file is
// recorded and the walk continues.
func (r *Repairer) FixTree(ctx context.Context, root string, opts Options) (*Report, error) {
	paths, err := Collect(root, opts.Extension, opts.TemplatesOnly)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(err, errors.ErrorTypeInternal, errors.ErrCodeOperationCanceled, "repair canceled")
		}

		changed, err := r.FixFile(path, opts.DryRun)
		switch {
		case err != nil:
			r.logger.Warn(ctx, err, "Failed to repair file", "path", path)
			report.Failures = append(report.Failures, Failure{Path: path, Err: err})
		case changed:
			r.logger.Info(ctx, "Repaired comment syntax", "path", path, "dry_run", opts.DryRun)
			report.Fixed = append(report.Fixed, path)
		default:
			report.Unchanged++
		}
	}

	return report, nil
}

// Collect lists files under root with the given extension in lexical order,
// skipping hidden directories.
func Collect(root, ext string, templatesOnly bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.WrapFileRead(err, root)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	suffix := "." + strings.TrimPrefix(ext, ".")
	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		if templatesOnly && !strings.HasPrefix(d.Name(), TemplatePrefix) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, errors.WrapIO(err, errors.ErrCodeFileNotFound, "failed to walk directory").WithPath(root)
	}
	return paths, nil
}
