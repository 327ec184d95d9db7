package runner

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// Discover finds the files matching opts on fsys. It returns a sorted,
// de-duplicated list of absolute paths.
func Discover(ctx context.Context, fsys afero.Fs, opts Options) ([]string, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	m, err := newMatcher(workDir, opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := fsys.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if m.matches(absPath) {
				add(absPath)
			}
			continue
		}

		discovered, err := walkDirectory(ctx, fsys, absPath, m)
		if err != nil {
			return nil, err
		}
		for _, f := range discovered {
			add(f)
		}
	}

	slices.Sort(files)
	return files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// walkDirectory walks root and returns the matching files. Hidden files and
// directories are skipped, and symlinks are never followed.
func walkDirectory(ctx context.Context, fsys afero.Fs, root string, m *matcher) ([]string, error) {
	var files []string

	err := afero.Walk(fsys, root, func(path string, info iofs.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if errors.Is(walkErr, iofs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		hidden := strings.HasPrefix(info.Name(), ".") && path != root

		if info.IsDir() {
			if hidden || m.excluded(path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if hidden || !info.Mode().IsRegular() {
			return nil
		}

		if m.matches(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

type matcher struct {
	workDir    string
	extensions []string
	include    *globSet
	exclude    *globSet
}

func newMatcher(workDir string, opts Options) (*matcher, error) {
	include, err := compileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("include: %w", err)
	}
	exclude, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("exclude: %w", err)
	}

	exts := make([]string, 0, len(opts.effectiveExtensions()))
	for _, e := range opts.effectiveExtensions() {
		exts = append(exts, strings.ToLower(e))
	}

	return &matcher{workDir: workDir, extensions: exts, include: include, exclude: exclude}, nil
}

func (m *matcher) rel(path string) string {
	rel, err := filepath.Rel(m.workDir, path)
	if err != nil {
		return path
	}
	return rel
}

func (m *matcher) hasExtension(path string) bool {
	return slices.Contains(m.extensions, strings.ToLower(filepath.Ext(path)))
}

func (m *matcher) excluded(path string, isDir bool) bool {
	return m.exclude.match(m.rel(path), isDir)
}

func (m *matcher) matches(path string) bool {
	if !m.hasExtension(path) || m.excluded(path, false) {
		return false
	}
	if !m.include.empty() && !m.include.match(m.rel(path), false) {
		return false
	}
	return true
}
