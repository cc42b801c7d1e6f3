package common

import (
	"regexp"
	"sync"
)

// RegexCache compiles patterns once and reuses them across goroutines.
type RegexCache struct {
	compiled sync.Map
}

// Compile returns the compiled form of pattern, compiling it on first use.
func (c *RegexCache) Compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := c.compiled.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	actual, _ := c.compiled.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp), nil
}

// Match compiles pattern through the cache and reports whether text matches.
func (c *RegexCache) Match(pattern, text string) (bool, error) {
	re, err := c.Compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(text), nil
}
