package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerPhases(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("parse")
	timer.End(idx, "3 files")
	timer.End(42, "ignored")

	report := timer.Report()
	if len(report.Phases) != 1 || report.Phases[0].Name != "parse" || report.Phases[0].Note != "3 files" {
		t.Fatalf("unexpected report %+v", report)
	}
	if !strings.Contains(timer.Summary(), "// 3 files") {
		t.Fatalf("summary lacks note:\n%s", timer.Summary())
	}
}

func TestTimerAddConcurrent(t *testing.T) {
	timer := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer.Add("cut", time.Millisecond)
		}()
	}
	wg.Wait()

	report := timer.Report()
	if len(report.Phases) != 1 {
		t.Fatalf("phases not merged: %+v", report.Phases)
	}
	if got := MillisToDuration(report.Phases[0].DurationMS); got != 8*time.Millisecond {
		t.Fatalf("cut total = %v", got)
	}
	if report.TotalMS != report.Phases[0].DurationMS {
		t.Fatalf("total %v != phase %v", report.TotalMS, report.Phases[0].DurationMS)
	}
}

func TestEmptyReport(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || len(r.Phases) != 0 {
		t.Fatalf("unexpected %+v", r)
	}
}
