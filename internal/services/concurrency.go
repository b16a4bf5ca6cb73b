package services

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sosnovich/skyward/internal/repository"
)

// ConcurrencyGuard wraps mutating operations with optimistic-lock retry.
// Only repository.ErrOptimisticLock triggers a retry; every other error
// propagates on the first attempt. When the bounded retries are exhausted
// the guard raises a terminal ConcurrencyError naming the entity kind.
type ConcurrencyGuard struct {
	maxRetries uint64
	backoff    time.Duration
}

func NewConcurrencyGuard(maxRetries uint64, backoff time.Duration) *ConcurrencyGuard {
	if backoff <= 0 {
		backoff = 50 * time.Millisecond
	}
	return &ConcurrencyGuard{maxRetries: maxRetries, backoff: backoff}
}

func (g *ConcurrencyGuard) Run(ctx context.Context, kind string, op func() error) error {
	policy := retry.WithMaxRetries(g.maxRetries, retry.NewConstant(g.backoff))
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		if err := op(); err != nil {
			if errors.Is(err, repository.ErrOptimisticLock) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if errors.Is(err, repository.ErrOptimisticLock) {
		return &ConcurrencyError{Kind: kind}
	}
	return err
}
