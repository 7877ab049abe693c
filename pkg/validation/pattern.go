package validation

import (
	"fmt"
	"regexp"
	"sync"
)

var patternCache = struct {
	sync.RWMutex
	compiled map[string]*regexp.Regexp
}{compiled: make(map[string]*regexp.Regexp)}

// Anchor wraps a pattern so it only accepts whole values, the way the HTML
// pattern attribute behaves.
func Anchor(pattern string) string {
	return "^(?:" + pattern + ")$"
}

// Compile returns the anchored regular expression for pattern. Results are
// cached process-wide.
func Compile(pattern string) (*regexp.Regexp, error) {
	patternCache.RLock()
	re, ok := patternCache.compiled[pattern]
	patternCache.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile(Anchor(pattern))
	if err != nil {
		return nil, fmt.Errorf("validation: compile pattern %q: %w", pattern, err)
	}

	patternCache.Lock()
	if existing, ok := patternCache.compiled[pattern]; ok {
		re = existing
	} else {
		patternCache.compiled[pattern] = re
	}
	patternCache.Unlock()
	return re, nil
}

// Matches reports whether value fully matches pattern. An empty pattern
// accepts everything; a pattern that does not compile accepts nothing.
func Matches(pattern, value string) bool {
	if pattern == "" {
		return true
	}
	re, err := Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(value)
}
