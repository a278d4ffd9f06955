package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "debug"} {
		l, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
		if l.String() != s {
			t.Fatalf("round trip %q -> %q", s, l.String())
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeFile) {
		t.Fatal("phase must not record files")
	}
	if !LevelDetail.ShouldEmit(ScopeFile) || LevelDetail.ShouldEmit(ScopeFunction) {
		t.Fatal("detail records files but not functions")
	}
	if !LevelDebug.ShouldEmit(ScopeFunction) {
		t.Fatal("debug records everything")
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d"} {
		Point(ring, ScopeFile, name, "", 0)
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	if strings.Join(names, ",") != "b,c,d" {
		t.Fatalf("snapshot = %v", names)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 4 {
		t.Fatalf("want 3 events and a loss warning, got %d lines:\n%s", got, buf.String())
	}
	if ring.Overwritten() != 1 || !strings.Contains(buf.String(), `"lost":1`) {
		t.Fatalf("expected one lost event:\n%s", buf.String())
	}
}

func TestZapTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Mode: ModeStream, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	root := Begin(tr, ScopePass, "cut", 0)
	Begin(tr, ScopeFunction, "function:hidden", root.ID()).End("")
	root.WithExtra("files", "2").End("ok")
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want begin+end only, got:\n%s", buf.String())
	}
	var end map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &end); err != nil {
		t.Fatalf("bad JSON %q: %v", lines[1], err)
	}
	if end["msg"] != "cut" || end["kind"] != "end" || end["detail"] != "ok" || end["files"] != "2" {
		t.Fatalf("unexpected end event %v", end)
	}
}

func TestContextDefaultsToNop(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("expected Nop tracer")
	}
	ring := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatal("tracer not propagated")
	}
	ctx = WithSpanContext(ctx, SpanContext{SpanID: 7})
	if CurrentSpan(ctx).SpanID != 7 {
		t.Fatal("span context not propagated")
	}
	if FromContext(ctx) != Tracer(ring) {
		t.Fatal("span context must keep the tracer")
	}
}

func TestStartNestsSpans(t *testing.T) {
	ring := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	ctx, outer := Start(ctx, ScopeDriver, "outer")
	inner, span := Start(ctx, ScopeFile, "inner")
	if CurrentSpan(inner).SpanID != span.ID() || CurrentSpan(ctx).SpanID != outer.ID() {
		t.Fatal("Start must make the new span current")
	}
	span.End("")
	outer.End("")
	evs := ring.Snapshot()
	if len(evs) != 4 || evs[1].ParentID != outer.ID() {
		t.Fatalf("unexpected events %+v", evs)
	}

	// без трейсера контекст не меняется
	plain := context.Background()
	if got, s := Start(plain, ScopeFile, "x"); got != plain || s.ID() != 0 {
		t.Fatal("Start without a tracer must be a no-op")
	}
}

func TestLogger(t *testing.T) {
	defer SetLogger(nil)
	if Logger() == nil {
		t.Fatal("Logger must never be nil")
	}
	var buf bytes.Buffer
	SetLogger(NewZap(&buf, FormatText, false))
	Logger().Info("marker found", zap.String("file", "a.js"))
	Logger().Debug("hidden")
	out := buf.String()
	if !strings.Contains(out, "marker found") || !strings.Contains(out, "a.js") {
		t.Fatalf("unexpected log output %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry leaked at info level: %q", out)
	}
}
