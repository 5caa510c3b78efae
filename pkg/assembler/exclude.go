package assembler

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vipshek/gradle-java-distribution/pkg/errors"
)

// varOverlayExcludePatterns blocks packaging-time content from the runtime
// state directories: logs and pid files are never shipped, configuration is.
var varOverlayExcludePatterns = []string{
	"var/log",
	"var/log/**",
	"var/run",
	"var/run/**",
}

// ExcludeMatcher matches bundle-relative slash paths against doublestar
// glob patterns.
type ExcludeMatcher struct {
	patterns []string
}

func NewExcludeMatcher(patterns ...string) (*ExcludeMatcher, error) {
	for _, pattern := range patterns {
		if _, err := doublestar.Match(pattern, "probe"); err != nil {
			return nil, errors.NewValidationError("invalid exclude pattern", err).WithContext("pattern", pattern)
		}
	}
	return &ExcludeMatcher{patterns: patterns}, nil
}

// Excluded reports whether the bundle-relative path matches any pattern.
// Path separators are normalized to slashes first.
func (m *ExcludeMatcher) Excluded(relPath string) bool {
	slashPath := filepath.ToSlash(relPath)
	for _, pattern := range m.patterns {
		if matched, _ := doublestar.Match(pattern, slashPath); matched {
			return true
		}
	}
	return false
}

func newVarOverlayMatcher() *ExcludeMatcher {
	matcher, err := NewExcludeMatcher(varOverlayExcludePatterns...)
	if err != nil {
		// The built-in patterns are constants; failing to compile them is a
		// programming error.
		panic(err)
	}
	return matcher
}
