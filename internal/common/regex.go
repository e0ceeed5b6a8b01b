package common

import (
	"regexp"
	"strings"
)

// SearchPattern compiles a case-insensitive search query. A query that is not
// a valid expression is matched literally. An empty query returns nil.
func SearchPattern(query string) *regexp.Regexp {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if re, err := regexp.Compile("(?i)" + query); err == nil {
		return re
	}
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
}

// MatchAny reports whether re matches any of the values. A nil pattern matches everything.
func MatchAny(re *regexp.Regexp, values ...string) bool {
	if re == nil {
		return true
	}
	for _, v := range values {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}
