package catalog

import (
	"strconv"
	"strings"
)

// ParseLatinInt parses integers the way the upstream feeds format them:
// "49.988", "49,988", "$ 1.234.567" all mean the plain number. Nil when
// no digits remain: absence, not zero.
func ParseLatinInt(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return nil
	}

	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
