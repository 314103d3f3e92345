package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/questforge-backend/pkg/logging"
)

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	operation := func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient")
		}
		return "done", nil
	}

	config := &RetryConfig{
		MaxRetries:      5,
		InitialDelay:    time.Millisecond,
		MaxDelay:        10 * time.Millisecond,
		BackoffFactor:   2.0,
		JitterFactor:    0.1,
		LogRetryAttempt: false,
	}

	result, err := Retry(context.Background(), operation, config, &logging.NoopLogger{})
	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Equal(t, 3, attempts)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	operation := func() (int, error) {
		attempts++
		return 0, errors.New("permanent")
	}

	config := &RetryConfig{
		MaxRetries:    3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		JitterFactor:  0.1,
	}

	_, err := Retry(context.Background(), operation, config, &logging.NoopLogger{})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryStopsWhenShouldRetryDeclines(t *testing.T) {
	attempts := 0
	operation := func() (int, error) {
		attempts++
		return 0, errors.New("fatal")
	}

	config := DefaultRetryConfig()
	config.InitialDelay = time.Millisecond
	config.ShouldRetry = func(err error, attempt int) bool { return false }

	_, err := Retry(context.Background(), operation, config, &logging.NoopLogger{})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	operation := func() (int, error) {
		return 0, errors.New("transient")
	}

	config := DefaultRetryConfig()
	config.InitialDelay = 50 * time.Millisecond

	_, err := Retry(ctx, operation, config, &logging.NoopLogger{})
	require.Error(t, err)
}

func TestCalculateDelayWithJitterBounds(t *testing.T) {
	base := 100 * time.Millisecond
	for i := 0; i < 20; i++ {
		delay := CalculateDelayWithJitter(base, 0.2)
		assert.GreaterOrEqual(t, delay, 80*time.Millisecond)
		assert.LessOrEqual(t, delay, 120*time.Millisecond)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	config := DefaultRetryConfig()
	config.MaxRetries = -1
	assert.Error(t, config.Validate())

	config = DefaultRetryConfig()
	config.BackoffFactor = 0.5
	assert.Error(t, config.Validate())

	assert.NoError(t, DefaultRetryConfig().Validate())
}
