package profiler

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTickLogsOncePerInterval(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := NewProfiler(zap.New(core))
	p.SetInterval(100 * time.Millisecond)

	start := time.Unix(0, 0)
	for i := 0; i < 10; i++ {
		if p.Tick(start.Add(time.Duration(i)*10*time.Millisecond), 2) {
			t.Fatalf("Tick %d: logged before the interval elapsed", i)
		}
	}
	if !p.Tick(start.Add(100*time.Millisecond), 2) {
		t.Fatalf("Tick at interval: got false, want true")
	}

	entries := logs.FilterMessage("tick profile").All()
	if len(entries) != 1 {
		t.Fatalf("log entries: got %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if got := fields["ticks_per_sec"].(float64); got != 110 {
		t.Errorf("ticks_per_sec: got %v, want 110", got)
	}
	if got := fields["mixers_per_tick"].(float64); got != 2 {
		t.Errorf("mixers_per_tick: got %v, want 2", got)
	}

	if p.Tick(start.Add(150*time.Millisecond), 0) {
		t.Errorf("Tick after report: counters not reset")
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	p := NewProfiler(nil)
	p.SetInterval(-1)
	now := time.Unix(0, 0)
	p.Tick(now, 0)
	if !p.Tick(now.Add(2*time.Second), 0) {
		t.Errorf("Tick: got false after the default interval")
	}
}
