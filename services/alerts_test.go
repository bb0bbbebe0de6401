package services

import (
	"reflect"
	"testing"

	"estrenos-monitor/config"
	"estrenos-monitor/models"
)

func TestAlertThresholdBoundary(t *testing.T) {
	rules := config.DefaultThresholds()

	at := EvaluateAlerts(map[string]*int64{models.MetricViews: models.Int64(2000)}, rules)
	if !at.HasAlert {
		t.Error("delta equal to threshold (2000) must trigger the alert")
	}

	below := EvaluateAlerts(map[string]*int64{models.MetricViews: models.Int64(1999)}, rules)
	if below.HasAlert {
		t.Errorf("delta 1999 must not trigger, got reasons %v", below.Reasons)
	}
}

func TestAlertReasonFormat(t *testing.T) {
	rules := []config.Threshold{
		{Metric: models.MetricViews, Label: "Trailer views", Min: 2000},
	}
	flag := EvaluateAlerts(map[string]*int64{models.MetricViews: models.Int64(2411)}, rules)

	want := []string{"Trailer views (24h): +2411"}
	if !reflect.DeepEqual(flag.Reasons, want) {
		t.Errorf("reasons: got %v, want %v", flag.Reasons, want)
	}
}

func TestAlertReasonsFollowDeclaredOrder(t *testing.T) {
	deltas := map[string]*int64{
		models.MetricEng7d: models.Int64(999),
		models.MetricViews: models.Int64(99999),
		models.MetricLikes: models.Int64(500),
	}

	flag := EvaluateAlerts(deltas, config.DefaultThresholds())
	want := []string{
		"Trailer views (24h): +99999",
		"Trailer likes (24h): +500",
		"Social engagement (24h): +999",
	}
	if !reflect.DeepEqual(flag.Reasons, want) {
		t.Errorf("reasons out of declared order:\ngot  %v\nwant %v", flag.Reasons, want)
	}
}

func TestAlertAbsentDeltaNeverFires(t *testing.T) {
	flag := EvaluateAlerts(map[string]*int64{models.MetricViews: nil}, config.DefaultThresholds())
	if flag.HasAlert {
		t.Errorf("absent delta fired an alert: %v", flag.Reasons)
	}
}

func TestAlertNegativeDeltaDoesNotFire(t *testing.T) {
	flag := EvaluateAlerts(map[string]*int64{models.MetricViews: models.Int64(-5000)}, config.DefaultThresholds())
	if flag.HasAlert {
		t.Errorf("negative delta fired an alert: %v", flag.Reasons)
	}
}

func TestAlertEmptyRuleTable(t *testing.T) {
	flag := EvaluateAlerts(map[string]*int64{models.MetricViews: models.Int64(1 << 40)}, nil)
	if flag.HasAlert || len(flag.Reasons) != 0 {
		t.Error("no rules configured should mean no alerts")
	}
}
