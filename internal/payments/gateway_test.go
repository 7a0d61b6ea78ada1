package payments

import (
	"context"
	"testing"
	"time"

	"apartment-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleAlwaysReturnsFinalStatus(t *testing.T) {
	g := NewGatewayWithSeed(0, 0.8, 1)

	for i := 0; i < 100; i++ {
		status, err := g.Settle(context.Background())
		require.NoError(t, err)
		assert.True(t, status.IsSettled(), "draw %d yielded %s", i, status)
	}
}

func TestSettleFailureRateConvergesToTwentyPercent(t *testing.T) {
	g := NewGatewayWithSeed(0, 0.8, 42)

	const n = 1000
	failed := 0
	for i := 0; i < n; i++ {
		status, err := g.Settle(context.Background())
		require.NoError(t, err)
		if status == models.PaymentStatusFailed {
			failed++
		}
	}

	rate := float64(failed) / float64(n)
	assert.InDelta(t, 0.2, rate, 0.05)
}

func TestSettleExtremeRates(t *testing.T) {
	always := NewGatewayWithSeed(0, 1.0, 7)
	for i := 0; i < 50; i++ {
		status, err := always.Settle(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusCompleted, status)
	}

	never := NewGatewayWithSeed(0, 0.0, 7)
	for i := 0; i < 50; i++ {
		status, err := never.Settle(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusFailed, status)
	}
}

func TestSettleAbortsOnCancelledContext(t *testing.T) {
	g := NewGatewayWithSeed(5*time.Second, 0.8, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := g.Settle(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSettleWaitsTheDelay(t *testing.T) {
	g := NewGatewayWithSeed(50*time.Millisecond, 0.8, 1)

	start := time.Now()
	_, err := g.Settle(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
