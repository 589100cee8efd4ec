package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCircuitBreakerRegistry_GetBreaker(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)

	breaker1 := registry.GetBreaker(BreakerYahoo)
	if breaker1 == nil {
		t.Fatal("expected breaker to be created")
	}

	breaker2 := registry.GetBreaker(BreakerYahoo)
	if breaker1 != breaker2 {
		t.Error("expected same breaker instance for same name")
	}

	breaker3 := registry.GetBreaker(BreakerOllama)
	if breaker1 == breaker3 {
		t.Error("expected different breaker for different name")
	}
}

func TestCircuitBreakerRegistry_Execute(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	ctx := context.Background()

	result, err := registry.Execute(ctx, "svc", func() (any, error) {
		return "ok", nil
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("expected 'ok', got %v", result)
	}

	boom := errors.New("fail")
	_, err = registry.Execute(ctx, "svc", func() (any, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected original error, got: %v", err)
	}
}

func TestCircuitBreakerRegistry_Execute_ContextCanceled(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := registry.Execute(ctx, "svc", func() (any, error) {
		return "should not reach", nil
	})
	if err == nil {
		t.Error("expected error due to cancelled context")
	}
}

func TestCircuitBreakerRegistry_TripsAfterFailures(t *testing.T) {
	config := CircuitBreakerConfig{
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     1 * time.Second,
	}
	registry := NewCircuitBreakerRegistry(config)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = registry.Execute(ctx, "failing", func() (any, error) {
			return nil, errors.New("fail")
		})
	}

	status := registry.Status()
	if status["failing"].State != "open" {
		t.Fatalf("expected breaker to be open, got %s", status["failing"].State)
	}

	executed := false
	_, err := registry.Execute(ctx, "failing", func() (any, error) {
		executed = true
		return nil, nil
	})
	if err == nil {
		t.Error("expected error from open circuit breaker")
	}
	if executed {
		t.Error("function should not run while breaker is open")
	}
}

func TestCircuitBreakerRegistry_Status(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	ctx := context.Background()

	_, _ = registry.Execute(ctx, "svc-a", func() (any, error) {
		return "ok", nil
	})
	_, _ = registry.Execute(ctx, "svc-b", func() (any, error) {
		return nil, errors.New("fail")
	})

	status := registry.Status()
	if len(status) != 2 {
		t.Fatalf("expected 2 breakers in status, got %d", len(status))
	}
	if status["svc-a"].TotalSuccesses != 1 {
		t.Errorf("expected 1 success for svc-a, got %d", status["svc-a"].TotalSuccesses)
	}
	if status["svc-b"].TotalFailures != 1 {
		t.Errorf("expected 1 failure for svc-b, got %d", status["svc-b"].TotalFailures)
	}
}

func TestWithCircuitBreaker_TypedResults(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))
	ctx := context.Background()

	history, err := WithCircuitBreaker(ctx, "typed", func() ([]float64, error) {
		return []float64{1.5, 2.5}, nil
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(history) != 2 || history[1] != 2.5 {
		t.Errorf("unexpected result: %v", history)
	}

	_, err = WithCircuitBreaker(ctx, "typed", func() ([]float64, error) {
		return nil, errors.New("fail")
	})
	if err == nil {
		t.Error("expected error")
	}
}

func TestCircuitBreakerRegistry_ConcurrentGetBreaker(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			registry.GetBreaker("shared")
		}()
	}
	wg.Wait()

	if len(registry.Status()) != 1 {
		t.Errorf("expected 1 breaker, got %d", len(registry.Status()))
	}
}

func TestBreakerConstants(t *testing.T) {
	names := map[string]string{
		BreakerYahoo:    "yahoo",
		BreakerAlpaca:   "alpaca",
		BreakerOllama:   "ollama",
		BreakerOpenAI:   "openai",
		BreakerBedrock:  "bedrock",
		BreakerNewsFeed: "newsfeed",
	}
	for got, want := range names {
		if got != want {
			t.Errorf("expected breaker name %q, got %q", want, got)
		}
	}
}
