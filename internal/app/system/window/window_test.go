package window_test

import (
	"testing"

	"github.com/dalemusser/lessondesk/internal/app/system/window"
)

func TestVisibleRangeWithDefaultHeights(t *testing.T) {
	e := window.NewEstimator(50)

	// 20 rows of 50px; viewport shows rows 4..7.
	r := e.VisibleRange(200, 200, 20, 0)
	if r.First != 4 || r.Last != 7 {
		t.Errorf("expected rows 4..7, got %d..%d", r.First, r.Last)
	}

	// Overscan widens both sides, clamped to the list.
	r = e.VisibleRange(200, 200, 20, 2)
	if r.First != 2 || r.Last != 9 {
		t.Errorf("with overscan expected 2..9, got %d..%d", r.First, r.Last)
	}
	r = e.VisibleRange(0, 200, 20, 3)
	if r.First != 0 {
		t.Errorf("overscan must clamp at 0, got %d", r.First)
	}
}

func TestVisibleRangeEmptyList(t *testing.T) {
	e := window.NewEstimator(50)
	r := e.VisibleRange(0, 200, 0, 2)
	if r.First != -1 || r.Last != -1 {
		t.Errorf("empty list should give (-1,-1), got %d..%d", r.First, r.Last)
	}
}

func TestMeasurementRefinesEstimates(t *testing.T) {
	e := window.NewEstimator(50)
	if e.TotalHeight(4) != 200 {
		t.Fatalf("estimate: expected 200, got %d", e.TotalHeight(4))
	}

	e.Measure(1, 120)
	if e.Height(1) != 120 {
		t.Errorf("measured height should replace the estimate, got %d", e.Height(1))
	}
	if e.Offset(2) != 170 {
		t.Errorf("offset should use the measurement, got %d", e.Offset(2))
	}
	if e.TotalHeight(4) != 270 {
		t.Errorf("total should use the measurement, got %d", e.TotalHeight(4))
	}

	// Non-positive measurements are ignored.
	e.Measure(2, 0)
	if e.Height(2) != 50 {
		t.Errorf("zero measurement should be ignored, got %d", e.Height(2))
	}
}

func TestNearEnd(t *testing.T) {
	// Nothing loaded: any signal should trigger a load.
	if !window.NearEnd(0, 0, 5) {
		t.Error("empty list should report near end")
	}

	// 20 rows, margin 5: rows 14..19 are in the trigger region.
	if window.NearEnd(13, 20, 5) {
		t.Error("row 13 of 20 is outside the margin")
	}
	if !window.NearEnd(14, 20, 5) {
		t.Error("row 14 of 20 is inside the margin")
	}
	if !window.NearEnd(19, 20, 5) {
		t.Error("last row is always near the end")
	}
}
