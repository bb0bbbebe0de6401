package services

import (
	"testing"

	"estrenos-monitor/models"
)

func TestSubBothPresent(t *testing.T) {
	tests := []struct {
		name  string
		today int64
		ref   int64
		want  int64
	}{
		{"growth", 1000, 600, 400},
		{"drop", 600, 1000, -400},
		{"flat", 500, 500, 0},
	}

	for _, tt := range tests {
		got := Sub(models.Int64(tt.today), models.Int64(tt.ref))
		if got == nil {
			t.Errorf("%s: Sub returned nil, want %d", tt.name, tt.want)
			continue
		}
		if *got != tt.want {
			t.Errorf("%s: Sub = %d, want %d", tt.name, *got, tt.want)
		}
	}
}

func TestSubAbsencePropagates(t *testing.T) {
	if got := Sub(nil, models.Int64(100)); got != nil {
		t.Errorf("Sub(nil, 100) = %d, want nil", *got)
	}
	if got := Sub(models.Int64(100), nil); got != nil {
		t.Errorf("Sub(100, nil) = %d, want nil", *got)
	}
	if got := Sub(nil, nil); got != nil {
		t.Errorf("Sub(nil, nil) = %d, want nil", *got)
	}
}

func TestComputeDeltasMixedPresence(t *testing.T) {
	today := map[string]*int64{
		models.MetricViews:    models.Int64(1000),
		models.MetricLikes:    models.Int64(50),
		models.MetricComments: nil,
	}
	ref := map[string]*int64{
		models.MetricViews:    models.Int64(600),
		models.MetricLikes:    nil,
		models.MetricComments: models.Int64(3),
	}

	deltas := ComputeDeltas(today, ref, models.TrailerMetrics)

	if d := deltas[models.MetricViews]; d == nil || *d != 400 {
		t.Errorf("views delta: got %v, want 400", d)
	}
	if d := deltas[models.MetricLikes]; d != nil {
		t.Errorf("likes delta should be absent when reference is absent, got %d", *d)
	}
	if d := deltas[models.MetricComments]; d != nil {
		t.Errorf("comments delta should be absent when today is absent, got %d", *d)
	}
}

func TestComputeDeltasNoReferenceSnapshot(t *testing.T) {
	today := map[string]*int64{
		models.MetricViews: models.Int64(500),
	}

	deltas := ComputeDeltas(today, nil, models.TrailerMetrics)

	if len(deltas) != len(models.TrailerMetrics) {
		t.Fatalf("expected an entry per metric, got %d", len(deltas))
	}
	for name, d := range deltas {
		if d != nil {
			t.Errorf("%s: delta without reference should be absent, got %d", name, *d)
		}
	}
}

func TestComputeDeltasEqualOperandsYieldZero(t *testing.T) {
	today := map[string]*int64{models.MetricEng7d: models.Int64(42)}
	ref := map[string]*int64{models.MetricEng7d: models.Int64(42)}

	deltas := ComputeDeltas(today, ref, models.SocialMetrics)
	if d := deltas[models.MetricEng7d]; d == nil || *d != 0 {
		t.Errorf("equal operands: got %v, want 0", d)
	}
}
