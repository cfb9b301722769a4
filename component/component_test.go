package component

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	apperrors "github.com/kbukum/initkit/errors"
	"github.com/kbukum/initkit/initialization"
	"github.com/kbukum/initkit/logger"
	"github.com/kbukum/initkit/scheduler"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name     string
	deps     []string
	startErr error
	stopErr  error
	order    *recorder
}

func (m *mockComponent) Name() string        { return m.name }
func (m *mockComponent) DependsOn() []string { return m.deps }
func (m *mockComponent) Start(ctx context.Context, _ scheduler.Scheduler) error {
	if m.order != nil {
		m.order.add("start:" + m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.order != nil {
		m.order.add("stop:" + m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Describe() Description {
	return Description{Type: "mock", Details: m.name}
}

type recorder struct {
	mu    sync.Mutex
	items []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, s)
}

func (r *recorder) index(s string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.items {
		if it == s {
			return i
		}
	}
	return -1
}

func newRegistry() *Registry {
	return NewRegistry(initialization.WithLogger(logger.Nop()))
}

func noop(context.Context, scheduler.Scheduler) error { return nil }

func TestRegisterDuplicate(t *testing.T) {
	r := newRegistry()
	if err := r.Register("db", noop); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	err := r.Register("db", noop)
	if !apperrors.HasCode(err, apperrors.ErrCodeAlreadyRegistered) {
		t.Errorf("expected ALREADY_REGISTERED, got %v", err)
	}
	if err := r.Register("", noop); !apperrors.HasCode(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG for empty name, got %v", err)
	}
}

func TestRegisterAfterBuild(t *testing.T) {
	r := newRegistry()
	_ = r.Register("db", noop)
	if err := r.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := r.Register("late", noop); err == nil {
		t.Error("expected error registering after Build")
	}
}

func TestGetBeforeAndAfterBuild(t *testing.T) {
	r := newRegistry()
	_ = r.Register("db", noop)
	if r.Get("db") != nil {
		t.Error("expected nil processor before Build")
	}
	if err := r.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	p := r.Get("db")
	if p == nil || p.Name() != "db" {
		t.Fatalf("expected processor for db, got %v", p)
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unknown name")
	}
}

func TestBuildUnknownDependency(t *testing.T) {
	r := newRegistry()
	_ = r.Register("api", noop, "db")
	err := r.Build()
	if !apperrors.HasCode(err, apperrors.ErrCodeUnknownDependency) {
		t.Errorf("expected UNKNOWN_DEPENDENCY, got %v", err)
	}
}

func TestBuildCycle(t *testing.T) {
	r := newRegistry()
	_ = r.Register("a", noop, "b")
	_ = r.Register("b", noop, "c")
	_ = r.Register("c", noop, "a")
	_ = r.Register("d", noop)

	err := r.Build()
	if !apperrors.HasCode(err, apperrors.ErrCodeDependencyCycle) {
		t.Fatalf("expected DEPENDENCY_CYCLE, got %v", err)
	}
	appErr, _ := apperrors.AsAppError(err)
	if got := appErr.Details["members"]; !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("expected cycle members [a b c], got %v", got)
	}
}

func TestLevels(t *testing.T) {
	r := newRegistry()
	_ = r.Register("api", noop, "db", "cache")
	_ = r.Register("cache", noop)
	_ = r.Register("db", noop, "config")
	_ = r.Register("config", noop)
	_ = r.Register("worker", noop, "db", "db")

	if err := r.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	want := [][]string{{"cache", "config"}, {"db"}, {"api", "worker"}}
	if got := r.Levels(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected levels %v, got %v", want, got)
	}
	if got := r.Names(); !reflect.DeepEqual(got, []string{"api", "cache", "db", "config", "worker"}) {
		t.Errorf("unexpected names %v", got)
	}
}

func TestInitializeAllOrder(t *testing.T) {
	r := newRegistry()
	order := &recorder{}
	_ = r.Add(&mockComponent{name: "api", deps: []string{"db", "cache"}, order: order})
	_ = r.Add(&mockComponent{name: "db", order: order})
	_ = r.Add(&mockComponent{name: "cache", order: order})

	if err := r.InitializeAll(context.Background()); err != nil {
		t.Fatalf("InitializeAll failed: %v", err)
	}
	api := order.index("start:api")
	if api < order.index("start:db") || api < order.index("start:cache") {
		t.Errorf("api started before its dependencies: %v", order.items)
	}
	for _, name := range r.Names() {
		if !r.Get(name).IsFinalized() {
			t.Errorf("expected %s finalized", name)
		}
	}
}

func TestInitializeAllJoinsFailures(t *testing.T) {
	r := newRegistry()
	boom := errors.New("connection refused")
	_ = r.Add(&mockComponent{name: "db", startErr: boom})
	_ = r.Add(&mockComponent{name: "api", deps: []string{"db"}})
	_ = r.Add(&mockComponent{name: "cache"})

	err := r.InitializeAll(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected the original cause to be reachable, got %v", err)
	}
	if !apperrors.HasCode(err, apperrors.ErrCodeInitializationFailed) {
		t.Errorf("expected INITIALIZATION_FAILED, got %v", err)
	}
	if !r.Get("cache").IsFinalized() {
		t.Error("independent component should still initialize")
	}
	if r.Get("api").IsFinalized() {
		t.Error("dependent of a failed component must not finalize")
	}

	joined, ok := err.(interface{ Unwrap() []error })
	if !ok || len(joined.Unwrap()) != 1 {
		t.Fatalf("expected the failure reported once, got %v", err)
	}
	appErr, _ := apperrors.AsAppError(joined.Unwrap()[0])
	if appErr == nil || appErr.Details["owner"] != "db" {
		t.Errorf("expected the failure reported under db, got %v", joined.Unwrap()[0])
	}

	// Memoized: a second pass returns the same causes without rerunning.
	if err := r.InitializeAll(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected memoized failure, got %v", err)
	}
}

func TestInitializeAllBuildError(t *testing.T) {
	r := newRegistry()
	_ = r.Register("api", noop, "missing")
	if err := r.InitializeAll(context.Background()); !apperrors.HasCode(err, apperrors.ErrCodeUnknownDependency) {
		t.Errorf("expected UNKNOWN_DEPENDENCY, got %v", err)
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := newRegistry()
	order := &recorder{}
	_ = r.Add(&mockComponent{name: "db", order: order})
	_ = r.Add(&mockComponent{name: "cache", deps: []string{"db"}, order: order})
	_ = r.Add(&mockComponent{name: "api", deps: []string{"cache"}, order: order})

	if err := r.InitializeAll(context.Background()); err != nil {
		t.Fatalf("InitializeAll failed: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	api, cache, db := order.index("stop:api"), order.index("stop:cache"), order.index("stop:db")
	if !(api < cache && cache < db) {
		t.Errorf("expected reverse stop order, got %v", order.items)
	}

	// Stoppers run once.
	n := len(order.items)
	_ = r.StopAll(context.Background())
	if len(order.items) != n {
		t.Error("expected StopAll to be idempotent")
	}
}

func TestStopAllSkipsFailedAndUnbuilt(t *testing.T) {
	r := newRegistry()
	order := &recorder{}
	_ = r.Add(&mockComponent{name: "db", startErr: fmt.Errorf("down"), order: order})

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll before build failed: %v", err)
	}
	_ = r.InitializeAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if order.index("stop:db") != -1 {
		t.Error("failed component must not be stopped")
	}
}

func TestStopAllWithErrors(t *testing.T) {
	r := newRegistry()
	_ = r.Register("db", noop)
	if err := r.OnStop("db", func(context.Context) error { return fmt.Errorf("stop failed") }); err != nil {
		t.Fatalf("OnStop failed: %v", err)
	}
	if err := r.OnStop("missing", nil); !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}

	_ = r.InitializeAll(context.Background())
	if err := r.StopAll(context.Background()); err == nil {
		t.Error("expected error from StopAll")
	}
}

func TestHealth(t *testing.T) {
	r := newRegistry()
	_ = r.Register("db", noop)
	_ = r.Register("cache", func(context.Context, scheduler.Scheduler) error {
		return errors.New("timeout")
	})

	before := r.Health(context.Background())
	for _, h := range before {
		if h.Status != StatusDegraded {
			t.Errorf("expected degraded before init, got %s for %s", h.Status, h.Name)
		}
	}

	_ = r.InitializeAll(context.Background())
	results := r.Health(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusHealthy {
		t.Errorf("expected db healthy, got %s", results[0].Status)
	}
	if results[1].Status != StatusUnhealthy || results[1].Message != "timeout" {
		t.Errorf("expected cache unhealthy with message, got %+v", results[1])
	}
}

func TestDescribe(t *testing.T) {
	r := newRegistry()
	_ = r.Add(&mockComponent{name: "db"})
	_ = r.Register("api", noop, "db")

	infos := r.Describe()
	if len(infos) != 2 {
		t.Fatalf("expected 2 infos, got %d", len(infos))
	}
	if infos[0].Description == nil || infos[0].Description.Type != "mock" {
		t.Errorf("expected description for db, got %+v", infos[0].Description)
	}
	if infos[1].Description != nil || !reflect.DeepEqual(infos[1].Dependencies, []string{"db"}) {
		t.Errorf("unexpected info for api: %+v", infos[1])
	}
}

func TestHealthStatusConstants(t *testing.T) {
	if StatusHealthy != "healthy" {
		t.Errorf("expected 'healthy', got %q", StatusHealthy)
	}
	if StatusUnhealthy != "unhealthy" {
		t.Errorf("expected 'unhealthy', got %q", StatusUnhealthy)
	}
	if StatusDegraded != "degraded" {
		t.Errorf("expected 'degraded', got %q", StatusDegraded)
	}
}
