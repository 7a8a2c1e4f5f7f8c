package obslog

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLevelOffSuppressesOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LevelOff)

	logger.Printf(ScopePass, "resolve: start")
	span := logger.Begin(ScopePass, "resolve")
	span.End("3 modules")

	if buf.Len() != 0 {
		t.Fatalf("expected no output at LevelOff, got %q", buf.String())
	}
}

func TestLevelPhaseCoversPassNotModule(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LevelPhase)

	if !logger.Enabled(ScopePass) {
		t.Fatalf("expected LevelPhase to cover ScopePass")
	}
	if logger.Enabled(ScopeModule) {
		t.Fatalf("expected LevelPhase to not cover ScopeModule")
	}

	logger.Printf(ScopeModule, "module app: resolved")
	if buf.Len() != 0 {
		t.Fatalf("expected module-scope line suppressed at LevelPhase, got %q", buf.String())
	}
}

func TestSpanBeginEndLogsBothLines(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LevelDetail)

	span := logger.Begin(ScopePass, "resolve")
	span.End("3 modules")

	out := buf.String()
	if !strings.Contains(out, "resolve: start") {
		t.Fatalf("missing start line: %q", out)
	}
	if !strings.Contains(out, "resolve: done") || !strings.Contains(out, "3 modules") {
		t.Fatalf("missing end line with detail: %q", out)
	}
}

func TestNilSpanEndIsNoop(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LevelOff)

	span := logger.Begin(ScopePass, "resolve")
	span.End("") // must not panic on the no-op Span returned by a gated Begin

	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestParseLevelRejectsUnknown(t *testing.T) {
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected ParseLevel to reject an unknown level")
	}
	lvl, err := ParseLevel("detail")
	if err != nil || lvl != LevelDetail {
		t.Fatalf("ParseLevel(detail) = %v, %v", lvl, err)
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := New(&bytes.Buffer{}, LevelPhase)
	ctx := WithLogger(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Fatalf("FromContext did not return the attached logger")
	}
	if got := FromContext(context.Background()); got != Nop {
		t.Fatalf("expected Nop for a context with no attached logger")
	}
}
