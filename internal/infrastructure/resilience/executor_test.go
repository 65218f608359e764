package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func fastRetryConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}
}

func retryableClassifier(target error) ErrorClassifier {
	return func(err error) ErrorClassification {
		return ErrorClassification{
			Retryable:     errors.Is(err, target),
			RecordFailure: true,
		}
	}
}

func TestExecutorRetriesUntilSuccess(t *testing.T) {
	exec := NewExecutor(fastRetryConfig(), nil)

	attempts := 0
	errTransient := errors.New("transient")
	err := exec.Execute(context.Background(), "lookup", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errTransient
		}
		return nil
	}, retryableClassifier(errTransient))
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestExecutorStopsOnPermanentError(t *testing.T) {
	exec := NewExecutor(fastRetryConfig(), nil)

	attempts := 0
	errPermanent := errors.New("permanent")
	err := exec.Execute(context.Background(), "lookup", func(context.Context) error {
		attempts++
		return errPermanent
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: false}
	})
	if !errors.Is(err, errPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestExecutorNilClassifierDoesNotRetry(t *testing.T) {
	exec := NewExecutor(fastRetryConfig(), nil)

	attempts := 0
	errAny := errors.New("boom")
	err := exec.Execute(context.Background(), "lookup", func(context.Context) error {
		attempts++
		return errAny
	}, nil)
	if !errors.Is(err, errAny) {
		t.Fatalf("expected error passthrough, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("default classification must not retry, got %d attempts", attempts)
	}
}

func TestExecutorHonorsCancelledContext(t *testing.T) {
	exec := NewExecutor(fastRetryConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := exec.Execute(ctx, "lookup", func(context.Context) error {
		attempts++
		return nil
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 0 {
		t.Fatalf("cancelled context must skip the operation, got %d attempts", attempts)
	}
}

func TestExecutorOpensBreakerAfterRecordedFailures(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:        1,
		RetryInitialBackoff:     1 * time.Millisecond,
		RetryMaxBackoff:         1 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	}, nil)

	errDown := errors.New("dependency down")
	classifier := func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: true}
	}

	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "publish", func(context.Context) error {
			return errDown
		}, classifier)
		if !errors.Is(err, errDown) {
			t.Fatalf("expected failure on iteration %d, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "publish", func(context.Context) error {
		t.Fatalf("open circuit must not invoke the operation")
		return nil
	}, classifier)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state error, got %v", err)
	}
	if !IsCircuitOpen(err) {
		t.Fatalf("IsCircuitOpen must report the open breaker")
	}
}

func TestExecutorKeepsBreakersPerOperation(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:        1,
		RetryInitialBackoff:     1 * time.Millisecond,
		RetryMaxBackoff:         1 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	}, nil)

	classifier := func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: true}
	}
	errDown := errors.New("dependency down")
	for i := 0; i < 3; i++ {
		_ = exec.Execute(context.Background(), "publish", func(context.Context) error {
			return errDown
		}, classifier)
	}

	// The publish breaker is open; an unrelated operation still executes.
	err := exec.Execute(context.Background(), "lookup", func(context.Context) error {
		return nil
	}, classifier)
	if err != nil {
		t.Fatalf("independent operation must not share the open breaker, got %v", err)
	}
}
