package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy(slept *[]time.Duration) Policy {
	p := Default()
	p.Sleep = func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return p
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	var slept []time.Duration
	calls := 0
	err := testPolicy(&slept).Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, slept)
}

func TestDo_RecoversOnThirdAttempt(t *testing.T) {
	var slept []time.Duration
	calls := 0
	err := testPolicy(&slept).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	// backoff doubles from the 2s base
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, slept)
}

func TestDo_ExhaustionReturnsLastError(t *testing.T) {
	var slept []time.Duration
	calls := 0
	last := errors.New("attempt 3")
	err := testPolicy(&slept).Do(context.Background(), func(context.Context) error {
		calls++
		if calls == 3 {
			return last
		}
		return errors.New("earlier")
	})
	require.ErrorIs(t, err, last)
	assert.Equal(t, 3, calls)
	assert.Len(t, slept, 2)
}

func TestDo_DelayCappedAtMax(t *testing.T) {
	var slept []time.Duration
	p := testPolicy(&slept)
	p.MaxAttempts = 5
	err := p.Do(context.Background(), func(context.Context) error {
		return errors.New("always")
	})
	require.Error(t, err)
	assert.Equal(t, []time.Duration{
		2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second,
	}, slept)
}

func TestDo_CanceledContextStopsRetrying(t *testing.T) {
	p := Default()
	p.Sleep = func(ctx context.Context, _ time.Duration) error {
		return context.Canceled
	}
	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("transient")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
