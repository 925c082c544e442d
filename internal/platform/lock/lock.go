// Package lock serializes participant mutations on a case across replicas
// with a Redis lease.
package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	dErrors "casebridge/pkg/domain-errors"
	"casebridge/pkg/platform/sentinel"
)

const keyPrefix = "casebridge:case-lock:"

// releaseScript deletes the key only while it still holds our token, so a
// lease that expired and was taken over is never released by the old owner.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// renewScript extends the lease only while it still holds our token.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// CaseLocker acquires per-case leases. A nil client yields a locker that
// always succeeds, for single-replica development.
//
// A held lease is renewed in the background every renewEvery until it is
// released, so a long mediated run keeps the case locked. A crashed holder
// stops renewing and its lease lapses after ttl.
type CaseLocker struct {
	client     redis.UniversalClient
	ttl        time.Duration
	renewEvery time.Duration
	logger     *slog.Logger
}

// Option configures a CaseLocker.
type Option func(*CaseLocker)

// WithRenewInterval overrides the renewal period, ttl/3 by default.
func WithRenewInterval(d time.Duration) Option {
	return func(l *CaseLocker) {
		if d > 0 {
			l.renewEvery = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *CaseLocker) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a CaseLocker whose leases expire after ttl unless renewed.
func New(client redis.UniversalClient, ttl time.Duration, opts ...Option) *CaseLocker {
	l := &CaseLocker{
		client:     client,
		ttl:        ttl,
		renewEvery: ttl / 3,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire takes the lease on caseID. It fails with CodeConflict when another
// request holds it. The lease is renewed until the returned release is
// called; release is idempotent.
func (l *CaseLocker) Acquire(ctx context.Context, caseID string) (func(context.Context) error, error) {
	if l.client == nil {
		return func(context.Context) error { return nil }, nil
	}

	key := keyPrefix + caseID
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "case lock unavailable")
	}
	if !ok {
		return nil, dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeConflict,
			fmt.Sprintf("case %s is being updated by another request", caseID))
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(context.WithoutCancel(ctx), key, token, stop, done)

	var once sync.Once
	return func(ctx context.Context) error {
		var err error
		once.Do(func() {
			close(stop)
			<-done
			err = l.release(ctx, caseID, key, token)
		})
		return err
	}, nil
}

func (l *CaseLocker) release(ctx context.Context, caseID, key, token string) error {
	err := releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release case lock %s: %w", caseID, err)
	}
	return nil
}

// keepAlive renews the lease until stop is closed or the lease is lost.
func (l *CaseLocker) keepAlive(ctx context.Context, key, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	if l.renewEvery <= 0 {
		return
	}
	ticker := time.NewTicker(l.renewEvery)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		n, err := renewScript.Run(ctx, l.client, []string{key}, token, l.ttl.Milliseconds()).Int()
		if err != nil {
			// Transient; the next tick retries while the lease is still valid.
			l.logger.WarnContext(ctx, "failed to renew case lock", "key", key, "error", err)
			continue
		}
		if n == 0 {
			l.logger.WarnContext(ctx, "case lock lost before release", "key", key)
			return
		}
	}
}
