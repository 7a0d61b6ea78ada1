// Package payments simulates settlement against a payment gateway: a fixed
// processing delay followed by a single uniform draw deciding the outcome.
package payments

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"apartment-portal/internal/models"
)

// Gateway settles payments. The randomness source is injected so tests can
// fix the seed and make outcomes deterministic.
type Gateway struct {
	delay       time.Duration
	successRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGateway creates a gateway with a time-seeded randomness source.
func NewGateway(delay time.Duration, successRate float64) *Gateway {
	return NewGatewayWithSeed(delay, successRate, time.Now().UnixNano())
}

// NewGatewayWithSeed creates a gateway with a fixed seed.
func NewGatewayWithSeed(delay time.Duration, successRate float64, seed int64) *Gateway {
	return &Gateway{
		delay:       delay,
		successRate: successRate,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Settle waits the processing delay, then draws the outcome once:
// completed with probability successRate, failed otherwise. A context
// cancelled during the delay aborts before any draw is made.
func (g *Gateway) Settle(ctx context.Context) (models.PaymentStatus, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	g.mu.Lock()
	draw := g.rng.Float64()
	g.mu.Unlock()

	if draw < g.successRate {
		return models.PaymentStatusCompleted, nil
	}
	return models.PaymentStatusFailed, nil
}
