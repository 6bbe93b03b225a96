package walker

import (
	"os"
	"path/filepath"
	"strings"
)

// ignoreLayer holds the glob patterns loaded from one directory's
// ignore file. Patterns are matched against a basename only — a
// deliberately simpler model than full gitignore semantics (no
// directory-scoped negation, no path-segment patterns), adequate for
// skipping build output and cache directories during a warm run.
type ignoreLayer struct {
	patterns []string
}

func loadIgnoreLayer(dir, fileName string) ignoreLayer {
	if fileName == "" {
		return ignoreLayer{}
	}
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		return ignoreLayer{}
	}
	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return ignoreLayer{patterns: patterns}
}

// matchesIgnore reports whether name is excluded by any layer collected
// from the root down to the entry's parent directory.
func matchesIgnore(layers []ignoreLayer, name string) bool {
	for _, layer := range layers {
		for _, pattern := range layer.patterns {
			if ok, _ := filepath.Match(pattern, name); ok {
				return true
			}
		}
	}
	return false
}
