package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func newBuffered(level string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: level, Format: "json"}, "test-svc", &buf)
	return l, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]interface{}{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l := New(&Config{Level: "invalid-level", Format: "json", Output: "stdout"}, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	if l := NewFromEnv("env-svc"); l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestVerboseRespectsLevel(t *testing.T) {
	l, buf := newBuffered("info")
	l.Verbose("db", "starting")
	if buf.Len() != 0 {
		t.Errorf("expected verbose output to be filtered at info, got %q", buf.String())
	}

	l, buf = newBuffered("debug")
	l.Verbose("db", "starting", Fields("deps", 2))
	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0][FieldTag] != "db" {
		t.Errorf("expected tag=db, got %v", lines[0][FieldTag])
	}
	if lines[0]["level"] != "debug" {
		t.Errorf("expected debug level, got %v", lines[0]["level"])
	}
}

func TestAlwaysIgnoresLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "error", "fatal"} {
		t.Run(level, func(t *testing.T) {
			l, buf := newBuffered(level)
			l.Always("db", "initialization failed", Fields(FieldError, "boom"))
			lines := decodeLines(t, buf)
			if len(lines) != 1 {
				t.Fatalf("expected always output at level %s, got %d lines", level, len(lines))
			}
			if lines[0][FieldError] != "boom" {
				t.Errorf("expected error field, got %v", lines[0][FieldError])
			}
		})
	}
}

func TestAlwaysDisabled(t *testing.T) {
	l, buf := newBuffered("disabled")
	l.Always("db", "dropped")
	if buf.Len() != 0 {
		t.Errorf("expected no output from a disabled logger, got %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	l, buf := newBuffered("info")
	cl := l.WithComponent("handler")
	if cl.service != "test-svc" {
		t.Errorf("service should be preserved, got %q", cl.service)
	}
	cl.Info("hello")
	lines := decodeLines(t, buf)
	if lines[0][FieldComponent] != "handler" {
		t.Errorf("expected component=handler, got %v", lines[0][FieldComponent])
	}
}

func TestWithContextSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	l, buf := newBuffered("info")
	l.WithContext(ctx).Info("traced")
	lines := decodeLines(t, buf)
	if lines[0][FieldTraceID] != span.SpanContext().TraceID().String() {
		t.Errorf("expected trace id to be attached, got %v", lines[0][FieldTraceID])
	}
}

func TestWithContextWithoutSpan(t *testing.T) {
	l, _ := newBuffered("info")
	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger when ctx carries no span")
	}
}

func TestWithFieldsAndError(t *testing.T) {
	l, buf := newBuffered("info")
	l.WithFields(map[string]interface{}{"key": "value"}).WithError(errors.New("bad")).Warn("careful")
	lines := decodeLines(t, buf)
	if lines[0]["key"] != "value" {
		t.Errorf("expected key=value, got %v", lines[0]["key"])
	}
	if lines[0]["error"] != "bad" {
		t.Errorf("expected error=bad, got %v", lines[0]["error"])
	}
}

func TestInit(t *testing.T) {
	Init(&Config{Level: "info", Format: "console", Output: "stdout", ServiceName: "initkit"})
	gl := GetGlobalLogger()
	if gl == nil {
		t.Fatal("expected global logger to be set after Init")
	}
	if gl.service != "initkit" {
		t.Errorf("expected service from config, got %q", gl.service)
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	globalLogger = nil
	if l := GetGlobalLogger(); l == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestSetGlobalLogger(t *testing.T) {
	l := NewDefault("custom")
	SetGlobalLogger(l)
	if got := GetGlobalLogger(); got != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	SetGlobalLogger(Nop())
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
	WithComponent("x").Always("x", "msg")
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"valid console", Config{Level: "debug", Format: "console", Output: "stderr"}, false},
		{"invalid level", Config{Level: "bad", Format: "json", Output: "stdout"}, true},
		{"invalid format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"invalid output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRegisterAndGet(t *testing.T) {
	defer Reset()
	l := NewDefault("registered")
	Register("storage", l)
	if got := Get("storage"); got != l {
		t.Error("expected registered logger")
	}
	if got := Get("unknown"); got == nil {
		t.Error("expected fallback logger for unregistered name")
	}
}

func TestAdopt(t *testing.T) {
	defer Reset()
	l, buf := newBuffered("debug")

	Adopt(l)
	want := []string{NameComponent, NameEventChannel, NameInitialization, NameScheduler}
	got := Registered()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	Get(NameScheduler).Info("dispatcher up")
	lines := decodeLines(t, buf)
	if len(lines) != 1 || lines[0][FieldComponent] != NameScheduler {
		t.Errorf("expected a line tagged %s, got %v", NameScheduler, lines)
	}

	Reset()
	Adopt(l, "custom")
	if got := Registered(); len(got) != 1 || got[0] != "custom" {
		t.Errorf("expected only custom, got %v", got)
	}
}

func TestFields(t *testing.T) {
	f := Fields("a", 1, "b", "two", 3, "ignored", "dangling")
	if f["a"] != 1 || f["b"] != "two" {
		t.Errorf("unexpected fields: %v", f)
	}
	if len(f) != 2 {
		t.Errorf("expected 2 fields, got %d", len(f))
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	ef := ErrorFields("init", errors.New("x"))
	if ef[FieldOperation] != "init" || ef[FieldError] != "x" {
		t.Errorf("unexpected error fields: %v", ef)
	}
	df := DurationFields("init", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", df[FieldDuration])
	}
	m := MergeWithError(nil, errors.New("y"))
	if m[FieldError] != "y" {
		t.Errorf("expected merged error, got %v", m)
	}
}
