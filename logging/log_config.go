package logging

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// LoggerPatternConfig sets the level of every registered logger whose name matches Pattern.
type LoggerPatternConfig struct {
	Pattern string `json:"pattern"`
	Level   string `json:"level"`
}

// a single name section: alphanumeric runs joined by '_' or '-'.
var sectionRegexp = regexp.MustCompile(`^[a-zA-Z0-9]+([_-]*[a-zA-Z0-9]+)*$`)

const wildcard = "*"

// ValidatePattern reports whether the pattern is a dotted logger name where any section may be `*`.
func ValidatePattern(pattern string) bool {
	for _, section := range strings.Split(pattern, ".") {
		if section != wildcard && !sectionRegexp.MatchString(section) {
			return false
		}
	}
	return true
}

// compilePattern turns a validated pattern into a regexp over full logger names. A `*` section
// matches any run of characters, dots included, so "panodepth.*" also covers nested subloggers.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if !ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid logger pattern %q", pattern)
	}
	sections := strings.Split(pattern, ".")
	for i, section := range sections {
		if section == wildcard {
			sections[i] = ".*"
			continue
		}
		sections[i] = regexp.QuoteMeta(section)
	}
	return regexp.Compile("^" + strings.Join(sections, `\.`) + "$")
}
