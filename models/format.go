package models

import "strconv"

// Absent is what renderers show when a value or delta is undefined.
// A missing number is never presented as 0.
const Absent = "—"

// FmtNum renders an optional metric value with es-AR thousands
// separators (49988 → "49.988").
func FmtNum(v *int64) string {
	if v == nil {
		return Absent
	}
	return group(*v)
}

// FmtDelta renders an optional signed delta ("+400", "-1.250", "0").
func FmtDelta(v *int64) string {
	if v == nil {
		return Absent
	}
	s := group(*v)
	if *v > 0 {
		return "+" + s
	}
	return s
}

func group(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "." + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
