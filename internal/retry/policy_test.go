package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docrender/internal/config"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	require.Equal(t, config.RetryBackoffLinear, p.Mode)
	require.Equal(t, 100*time.Millisecond, p.Initial)
	require.Equal(t, 2*time.Second, p.Max)
	require.Equal(t, 2, p.MaxRetries)
	require.NoError(t, p.Validate())
}

// Initial larger than max is clamped.
func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, 5*time.Second, 2*time.Second, 5)
	require.Equal(t, 2*time.Second, p.Initial)
	require.Equal(t, 2*time.Second, p.Max)
	require.Equal(t, config.RetryBackoffFixed, p.Mode)
	require.Equal(t, 5, p.MaxRetries)

	unknown := NewPolicy("random", 0, 0, -1)
	require.Equal(t, DefaultPolicy(), unknown)
}

func TestFromConfig(t *testing.T) {
	zero := 0
	p := FromConfig(config.RetryConfig{Mode: config.RetryBackoffExponential, MaxRetries: &zero})
	require.Equal(t, config.RetryBackoffExponential, p.Mode)
	require.Equal(t, 0, p.MaxRetries)

	require.Equal(t, 2, FromConfig(config.RetryConfig{}).MaxRetries)
}

func TestDelayModes(t *testing.T) {
	ms := time.Millisecond
	fixed := NewPolicy(config.RetryBackoffFixed, 100*ms, 500*ms, 3)
	for i := 1; i <= 3; i++ {
		require.Equal(t, 100*ms, fixed.Delay(i))
	}

	linear := NewPolicy(config.RetryBackoffLinear, 100*ms, 250*ms, 5)
	for attempt, want := range map[int]time.Duration{1: 100 * ms, 2: 200 * ms, 3: 250 * ms, 4: 250 * ms} {
		require.Equal(t, want, linear.Delay(attempt), "linear attempt %d", attempt)
	}

	exp := NewPolicy(config.RetryBackoffExponential, 50*ms, 160*ms, 5)
	for attempt, want := range map[int]time.Duration{1: 50 * ms, 2: 100 * ms, 3: 160 * ms, 40: 160 * ms} {
		require.Equal(t, want, exp.Delay(attempt), "exp attempt %d", attempt)
	}

	require.Zero(t, linear.Delay(0))
	require.Zero(t, linear.Delay(-1))
}

func TestDo(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 2)
	transient := errors.New("busy")

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := p.Do(context.Background(), func() error {
			calls++
			if calls < 3 {
				return transient
			}
			return nil
		}, nil)
		require.NoError(t, err)
		require.Equal(t, 3, calls)
	})

	t.Run("gives up when exhausted", func(t *testing.T) {
		calls := 0
		err := p.Do(context.Background(), func() error { calls++; return transient }, nil)
		require.ErrorIs(t, err, transient)
		require.Equal(t, 3, calls)
	})

	t.Run("permanent errors are not retried", func(t *testing.T) {
		calls := 0
		err := p.Do(context.Background(), func() error { calls++; return transient },
			func(error) bool { return false })
		require.ErrorIs(t, err, transient)
		require.Equal(t, 1, calls)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		slow := NewPolicy(config.RetryBackoffFixed, time.Hour, time.Hour, 3)
		err := slow.Do(ctx, func() error { return transient }, nil)
		require.ErrorIs(t, err, context.Canceled)
		require.ErrorIs(t, err, transient)
	})
}
