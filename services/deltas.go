package services

// The delta engine is pure: it reads two metric maps and owns no state.
// A delta exists only when both operands exist. Absence propagates:
// defaulting a missing side to 0 would fabricate a large jump on the
// first observed day, or mask a real drop.

// Sub returns today − ref, or nil when either operand is absent.
// Negative results are legitimate: sources correct their own counters.
func Sub(today, ref *int64) *int64 {
	if today == nil || ref == nil {
		return nil
	}
	d := *today - *ref
	return &d
}

// ComputeDeltas computes signed per-metric differences between today's
// values and a reference snapshot's values, for the named metrics. The
// result always carries every requested name, mapped to nil when the
// delta is undefined.
func ComputeDeltas(today, ref map[string]*int64, names []string) map[string]*int64 {
	deltas := make(map[string]*int64, len(names))
	for _, name := range names {
		if ref == nil {
			deltas[name] = nil
			continue
		}
		deltas[name] = Sub(today[name], ref[name])
	}
	return deltas
}
