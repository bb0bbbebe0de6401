package services

import (
	"fmt"

	"estrenos-monitor/config"
	"estrenos-monitor/models"
)

// EvaluateAlerts applies the threshold rule table to a title's 24h
// deltas. Rules fire in declared order, so the reason list is
// deterministic; a delta exactly equal to its threshold fires.
// Absent deltas never fire.
func EvaluateAlerts(deltas map[string]*int64, rules []config.Threshold) models.AlertFlag {
	var flag models.AlertFlag
	for _, rule := range rules {
		d := deltas[rule.Metric]
		if d == nil || *d < rule.Min {
			continue
		}
		flag.Reasons = append(flag.Reasons, fmt.Sprintf("%s (24h): %+d", rule.Label, *d))
	}
	flag.HasAlert = len(flag.Reasons) > 0
	return flag
}
