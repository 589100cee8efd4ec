package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithRetry_FirstAttemptSucceeds(t *testing.T) {
	ctx := context.Background()
	config := RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     100 * time.Millisecond,
	}

	calls := 0
	err := WithRetry(ctx, config, func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestWithRetry_EventualSuccess(t *testing.T) {
	ctx := context.Background()
	config := RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     100 * time.Millisecond,
	}

	calls := 0
	err := WithRetry(ctx, config, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_ExhaustsRetries(t *testing.T) {
	ctx := context.Background()
	config := RetryConfig{
		MaxRetries:     2,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     100 * time.Millisecond,
	}

	calls := 0
	boom := errors.New("persistent")
	err := WithRetry(ctx, config, func() error {
		calls++
		return boom
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped original error, got: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls (initial + 2 retries), got %d", calls)
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	config := RetryConfig{
		MaxRetries:     5,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     200 * time.Millisecond,
	}

	calls := 0
	err := WithRetry(ctx, config, func() error {
		calls++
		if calls == 2 {
			cancel()
		}
		return errors.New("failing")
	})

	if err == nil {
		t.Error("expected error, got nil")
	}
	if calls > 3 {
		t.Errorf("expected at most 3 calls before cancellation, got %d", calls)
	}
}

func TestWithRetry_BackoffGrows(t *testing.T) {
	ctx := context.Background()
	config := RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     50 * time.Millisecond,
	}

	start := time.Now()
	WithRetry(ctx, config, func() error {
		return errors.New("failing")
	})
	elapsed := time.Since(start)

	// 10ms + 20ms + 40ms of backoff at minimum
	if elapsed < 70*time.Millisecond {
		t.Errorf("expected at least 70ms of backoff, got %v", elapsed)
	}
}
