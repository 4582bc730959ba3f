package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("load")
	time.Sleep(time.Millisecond)
	tm.End(idx, "2 files")
	tm.End(42, "ignored")

	report := tm.Report()
	if len(report.Phases) != 1 || report.Phases[0].Name != "load" || report.Phases[0].Note != "2 files" {
		t.Fatalf("report: %+v", report)
	}
	if report.Phases[0].DurationMS <= 0 || report.TotalMS < report.Phases[0].DurationMS {
		t.Fatalf("durations: %+v", report)
	}
	summary := tm.Summary()
	if !strings.Contains(summary, "load") || !strings.Contains(summary, "// 2 files") || !strings.Contains(summary, "total") {
		t.Fatalf("summary:\n%s", summary)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if len(tm.Report().Phases) != 0 {
		t.Fatalf("nil timer records nothing")
	}
}
