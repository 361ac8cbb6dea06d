package logger

import (
	"os"
	"regexp"
	"strings"
)

// HomeMasker hides user names embedded in home directory paths.
// The current user's home is shortened to "~"; other users' homes
// keep their prefix with the user name replaced by "***".
type HomeMasker struct {
	home  string
	rules []maskRule
}

type maskRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// NewHomeMasker creates a masker for the current user
func NewHomeMasker() *HomeMasker {
	home, _ := os.UserHomeDir()
	return newHomeMasker(home)
}

func newHomeMasker(home string) *HomeMasker {
	return &HomeMasker{
		home: strings.TrimRight(home, `/\`),
		rules: []maskRule{
			{regexp.MustCompile(`(?i)\b([A-Z]):\\Users\\[^\\]+`), `${1}:\Users\***`},
			{regexp.MustCompile(`(?i)\b([A-Z]):/Users/[^/]+`), `${1}:/Users/***`},
			{regexp.MustCompile(`/home/[^/\s]+`), "/home/***"},
			{regexp.MustCompile(`/Users/[^/\s]+`), "/Users/***"},
		},
	}
}

// Mask rewrites home directory segments in s
func (m *HomeMasker) Mask(s string) string {
	if m.home != "" && len(m.home) > 1 {
		s = strings.ReplaceAll(s, m.home, "~")
	}
	for _, rule := range m.rules {
		s = rule.pattern.ReplaceAllString(s, rule.replacement)
	}
	return s
}

// MaskArgs masks string and error values of a key/value argument list.
// Keys and other value types are left as they are.
func (m *HomeMasker) MaskArgs(args []any) []any {
	if len(args) == 0 {
		return args
	}

	out := make([]any, len(args))
	copy(out, args)
	for i := 1; i < len(out); i += 2 {
		switch v := out[i].(type) {
		case string:
			out[i] = m.Mask(v)
		case error:
			out[i] = m.Mask(v.Error())
		}
	}
	return out
}
