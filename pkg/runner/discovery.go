package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Discover resolves opts.Paths into a sorted, deduplicated list of absolute
// file paths. Directories are walked for files with a scanned extension;
// files named directly are kept whatever their extension. Hidden entries
// below a walked root and paths matching ExcludeGlobs are skipped.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	w := &walker{
		ctx:     ctx,
		opts:    opts,
		workDir: workDir,
		exts:    normalizeExtensions(opts.effectiveExtensions()),
		seen:    make(map[string]struct{}),
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if info.IsDir() {
			if err := w.walk(abs); err != nil {
				return nil, err
			}
			continue
		}
		if !w.excluded(abs) {
			w.add(abs)
		}
	}

	slices.Sort(w.files)
	return w.files, nil
}

// walker accumulates discovered files.
type walker struct {
	ctx     context.Context //nolint:containedctx // Scoped to a single Discover call.
	opts    Options
	workDir string
	exts    map[string]struct{}
	seen    map[string]struct{}
	files   []string
}

func (w *walker) add(file string) {
	if _, dup := w.seen[file]; dup {
		return
	}
	w.seen[file] = struct{}{}
	w.files = append(w.files, file)
}

// walk adds every matching file under root.
func (w *walker) walk(root string) error {
	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		hidden := p != root && strings.HasPrefix(entry.Name(), ".")

		switch {
		case entry.IsDir():
			if p != root && (hidden || w.excluded(p)) {
				return filepath.SkipDir
			}
			return nil
		case hidden:
			return nil
		case entry.Type()&fs.ModeSymlink != 0:
			return w.symlink(p)
		}

		if w.matches(p) {
			w.add(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// symlink handles a symlink found during a walk. Broken links are skipped;
// directory links are walked through their target when FollowSymlinks is set.
func (w *walker) symlink(p string) error {
	target, err := filepath.EvalSymlinks(p)
	if err != nil {
		return nil //nolint:nilerr // Broken symlinks are skipped.
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // Inaccessible targets are skipped.
	}

	if info.IsDir() {
		if !w.opts.FollowSymlinks {
			return nil
		}
		// Walk the target, not the link, so WalkDir does not stop at the Lstat.
		return w.walk(target)
	}

	if w.matches(p) {
		w.add(p)
	}
	return nil
}

// matches reports whether a walked file should be scanned.
func (w *walker) matches(file string) bool {
	if _, ok := w.exts[strings.ToLower(filepath.Ext(file))]; !ok {
		return false
	}
	if w.excluded(file) {
		return false
	}
	if len(w.opts.IncludeGlobs) == 0 {
		return true
	}
	return matchAny(w.rel(file), w.opts.IncludeGlobs)
}

func (w *walker) excluded(file string) bool {
	return matchAny(w.rel(file), w.opts.ExcludeGlobs)
}

// rel returns file relative to the working directory, slash separated.
func (w *walker) rel(file string) string {
	rel, err := filepath.Rel(w.workDir, file)
	if err != nil {
		rel = file
	}
	return filepath.ToSlash(rel)
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

func normalizeExtensions(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

func matchAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchGlob(rel, pattern) {
			return true
		}
	}
	return false
}

// matchGlob matches a slash-separated relative path against a glob.
// "**" matches any number of path segments. A pattern without a slash
// also matches the base name, so "*.svg" applies at every depth.
func matchGlob(rel, pattern string) bool {
	pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
	if pattern == "" {
		return false
	}

	if !strings.Contains(pattern, "/") && !strings.Contains(pattern, "**") {
		if ok, err := path.Match(pattern, path.Base(rel)); err == nil && ok {
			return true
		}
	}

	return matchSegments(strings.Split(rel, "/"), strings.Split(pattern, "/"))
}

func matchSegments(parts, pattern []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			// A trailing "**" matches the directory itself and everything below it.
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(parts); i++ {
				if matchSegments(parts[i:], rest) {
					return true
				}
			}
			return false
		}

		if len(parts) == 0 {
			return false
		}
		if ok, err := path.Match(pattern[0], parts[0]); err != nil || !ok {
			return false
		}
		parts, pattern = parts[1:], pattern[1:]
	}
	return len(parts) == 0
}
