package runner

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// globSet matches slash-separated relative paths against a list of patterns.
//
// A pattern without a slash also matches the base name, so "*.min.js"
// excludes minified files in every directory. A leading "**/" also matches
// at the top level.
type globSet struct {
	globs []globPattern
}

type globPattern struct {
	glob     glob.Glob
	baseName bool
	anyDepth glob.Glob
}

func compileGlobs(patterns []string) (*globSet, error) {
	set := &globSet{globs: make([]globPattern, 0, len(patterns))}
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		if p == "" {
			continue
		}

		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", p, err)
		}
		gp := globPattern{glob: g, baseName: !strings.Contains(p, "/")}

		if rest, ok := strings.CutPrefix(p, "**/"); ok && rest != "" {
			if gp.anyDepth, err = glob.Compile(rest, '/'); err != nil {
				return nil, fmt.Errorf("invalid glob %q: %w", p, err)
			}
		}
		set.globs = append(set.globs, gp)
	}
	return set, nil
}

func (s *globSet) empty() bool {
	return s == nil || len(s.globs) == 0
}

// match reports whether rel matches any pattern. Directories are also
// matched with a trailing slash so "dist/**" skips dist itself.
func (s *globSet) match(rel string, isDir bool) bool {
	if s.empty() {
		return false
	}

	rel = filepath.ToSlash(rel)
	candidates := []string{rel}
	if isDir {
		candidates = append(candidates, rel+"/")
	}

	for _, gp := range s.globs {
		for _, c := range candidates {
			if gp.glob.Match(c) || (gp.anyDepth != nil && gp.anyDepth.Match(c)) {
				return true
			}
		}
		if gp.baseName && gp.glob.Match(path.Base(rel)) {
			return true
		}
	}
	return false
}
