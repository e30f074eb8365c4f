package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: 5 * time.Second, HalfOpenMaxReq: 1})

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_ExecuteCountsOnlyClassifiedFailures(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenMaxReq: 1})
	errTransient := errors.New("transient")
	errClient := errors.New("not found")
	isTransient := func(err error) bool { return errors.Is(err, errTransient) }

	if err := b.Execute(func() error { return errClient }, isTransient); !errors.Is(err, errClient) {
		t.Fatalf("expected client error to pass through, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected non-transient error to keep breaker closed, got %s", state)
	}

	if err := b.Execute(func() error { return errTransient }, isTransient); !errors.Is(err, errTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after transient failure, got %s", state)
	}

	called := false
	err := b.Execute(func() error {
		called = true
		return nil
	}, isTransient)
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("expected rejected call while open, err=%v called=%v", err, called)
	}
}

func TestCircuitBreaker_NotifiesStateTransitions(t *testing.T) {
	type transition struct{ from, to CircuitState }
	var got []transition

	b := NewCircuitBreaker(
		CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenMaxReq: 1},
		WithStateListener(func(from, to CircuitState) {
			got = append(got, transition{from: from, to: to})
		}),
	)
	now := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	b.RecordSuccess()
	b.RecordFailure()
	now = now.Add(2 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe, got %v", err)
	}
	b.RecordSuccess()

	want := []transition{
		{from: CircuitStateClosed, to: CircuitStateOpen},
		{from: CircuitStateOpen, to: CircuitStateHalfOpen},
		{from: CircuitStateHalfOpen, to: CircuitStateClosed},
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected transitions: %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("transition %d: got=%+v want=%+v", i, got[i], want[i])
		}
	}
}

func TestNormalizeCircuitBreakerConfig_FillsDefaults(t *testing.T) {
	cfg := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true})
	if cfg.FailureThreshold != 5 || cfg.OpenTimeout != 15*time.Second || cfg.HalfOpenMaxReq != 2 {
		t.Fatalf("unexpected normalized config: %+v", cfg)
	}
	if !cfg.Enabled {
		t.Fatalf("expected Enabled to be kept")
	}
}
