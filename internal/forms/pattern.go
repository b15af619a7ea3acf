package forms

import (
	"regexp"
	"sync"
)

// compiled author patterns, keyed by source
var patternCache sync.Map

func compilePattern(src string) (*regexp.Regexp, error) {
	if re, ok := patternCache.Load(src); ok {
		return re.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(src)
	if err != nil {
		return nil, err
	}

	patternCache.Store(src, re)
	return re, nil
}
