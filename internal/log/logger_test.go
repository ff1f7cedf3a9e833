package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"subtrackr/internal/core"
)

func TestNewJSONWritesComponentOnce(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentStore, Writer: &buf})

	l.WithComponent(ComponentService).Info("hello", FieldCount, 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if rec[FieldComponent] != ComponentService {
		t.Errorf("component = %v, want %s", rec[FieldComponent], ComponentService)
	}
	if strings.Count(buf.String(), `"component"`) != 1 {
		t.Errorf("component attribute repeated: %s", buf.String())
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Writer: &buf})

	l.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level: %q", buf.String())
	}
	l.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn should be written: %q", buf.String())
	}
}

func TestWithKeepsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentCLI, Writer: &buf}).With(FieldKey, "k")
	if l.Component() != ComponentCLI {
		t.Fatalf("component = %s", l.Component())
	}
	l.WithComponent(ComponentStore).Info("x")
	if !strings.Contains(buf.String(), "key=k") || !strings.Contains(buf.String(), "component=store") {
		t.Fatalf("unexpected record %q", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	l := Nop()
	if got := FromContext(NewContext(context.Background(), l)); got != l {
		t.Fatal("expected the stored logger")
	}
	if got := FromContext(context.Background()); got == nil || got.Component() != "unknown" {
		t.Fatalf("unexpected fallback logger %+v", got)
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithOperation(OpAdd).
		WithError(errors.New("boom")).
		WithError(nil).
		WithSubscription(core.Subscription{ID: "1", Name: "n", Cost: 2, BillingCycle: core.Monthly})

	if f[FieldOperation] != OpAdd || f[FieldError] != "boom" || f[FieldSubscriptionID] != "1" {
		t.Fatalf("unexpected fields %v", f)
	}
	if _, ok := f[FieldCategory]; ok {
		t.Fatal("empty category should be omitted")
	}
	if len(f.ToSlice()) != 2*len(f) {
		t.Fatalf("slice length mismatch")
	}
}

func TestFromContextOrRetargetsComponent(t *testing.T) {
	var buf bytes.Buffer
	invocation := New(Config{Level: slog.LevelInfo, Component: ComponentCLI, Writer: &buf}).With(FieldRunID, "run_1")
	fallback := Nop().WithComponent(ComponentStore)

	if got := FromContextOr(context.Background(), fallback); got != fallback {
		t.Fatal("expected the fallback without a context logger")
	}

	FromContextOr(NewContext(context.Background(), invocation), fallback).Info("x")
	out := buf.String()
	if !strings.Contains(out, "run_id=run_1") || !strings.Contains(out, "component=store") {
		t.Fatalf("unexpected record %q", out)
	}
	if strings.Count(out, "component=") != 1 {
		t.Fatalf("component repeated in %q", out)
	}
}
