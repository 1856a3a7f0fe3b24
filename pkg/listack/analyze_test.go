package listack

import(
	"errors"
	"math"
	"testing"
)

func TestAnalyzeIdenticalShifts(t *testing.T) {
	shifts := []ShiftVector{{1.5, -2.25}, {0, 0}, {-3, 4}}

	report, err := AnalyzeAlignment(shifts, shifts)
	if err != nil {
		t.Fatalf("AnalyzeAlignment: %v", err)
	}

	if report.NumMisaligned != 0 {
		t.Fatalf("identical arrays flagged %d misaligned frames", report.NumMisaligned)
	}
	if report.Mean != 0.0 {
		t.Fatalf("mean error %f, wanted 0", report.Mean)
	}
	for k, e := range report.PerFrame {
		if e != 0.0 {
			t.Fatalf("frame %d: error %f, wanted 0", k, e)
		}
	}
}

func TestAnalyzeCountsThresholdCrossings(t *testing.T) {
	injected := []ShiftVector{{1, 0}, {2, 2}, {0, 0}}
	recovered := []ShiftVector{{1, 0.05}, {2, 2.5}, {0, 0}}

	report, err := AnalyzeAlignment(injected, recovered)
	if err != nil {
		t.Fatalf("AnalyzeAlignment: %v", err)
	}

	if report.NumMisaligned != 1 {
		t.Fatalf("counted %d misaligned, wanted 1 (only the 0.5px deviation)", report.NumMisaligned)
	}
	if math.Abs(report.PerFrame[1] - 0.5) > 1e-12 {
		t.Fatalf("frame 1 deviation %f, wanted 0.5", report.PerFrame[1])
	}
	want := (0.05 + 0.5 + 0.0) / 3.0
	if math.Abs(report.Mean - want) > 1e-12 {
		t.Fatalf("mean %f, wanted %f", report.Mean, want)
	}
}

func TestAnalyzeLengthMismatch(t *testing.T) {
	_, err := AnalyzeAlignment([]ShiftVector{{1, 1}}, []ShiftVector{{1, 1}, {2, 2}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestReportRendersTable(t *testing.T) {
	report, err := AnalyzeAlignment([]ShiftVector{{1, 2}}, []ShiftVector{{1, 2}})
	if err != nil {
		t.Fatalf("AnalyzeAlignment: %v", err)
	}
	if s := report.String(); len(s) == 0 {
		t.Fatalf("empty report")
	}
}
