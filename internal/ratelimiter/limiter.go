package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// Operation distinguishes Admin API calls that are throttled independently.
type Operation string

const (
	OperationQuery    Operation = "query"
	OperationMutation Operation = "mutation"
)

// OperationLimiters holds one token bucket limiter per operation kind.
// Burst is set equal to the rate so no extra burst capacity is allowed
// beyond the configured per-second maximum.
type OperationLimiters struct {
	limiters map[Operation]*rate.Limiter
}

// New creates an OperationLimiters with ratePerSec tokens per second per
// operation. A non-positive rate disables throttling.
func New(ratePerSec int) *OperationLimiters {
	r := rate.Limit(ratePerSec)
	burst := ratePerSec
	if ratePerSec <= 0 {
		r = rate.Inf
		burst = 1
	}

	return &OperationLimiters{
		limiters: map[Operation]*rate.Limiter{
			OperationQuery:    rate.NewLimiter(r, burst),
			OperationMutation: rate.NewLimiter(r, burst),
		},
	}
}

// Wait blocks until the operation's limiter grants a token.
// Returns a non-nil error only if ctx is cancelled while waiting.
// Unknown operations are not throttled.
func (ol *OperationLimiters) Wait(ctx context.Context, op Operation) error {
	l, ok := ol.limiters[op]
	if !ok {
		return ctx.Err()
	}
	return l.Wait(ctx)
}
