package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
)

const (
	lockTTL = 5 * time.Second

	// Release only deletes the key if this holder still owns it, so an
	// expired lock taken over by another decision is never released here.
	releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`
)

// RequestLocker serializes the request's decision paths (submit, accept,
// cancel) with a SET NX lock. Acquire fails fast: a held lock means another
// decision is in flight, which surfaces to the caller as a conflict instead
// of queueing behind it. The TTL bounds the damage of a crashed holder.
type RequestLocker struct {
	client *redis.Client
}

func NewRequestLocker(client *redis.Client) *RequestLocker {
	return &RequestLocker{client: client}
}

func (l *RequestLocker) Acquire(ctx context.Context, requestID string) (func(), error) {
	key := l.key(requestID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("request %s locked: %w", requestID, domain.ErrConflict)
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		_ = l.client.Eval(releaseCtx, releaseScript, []string{key}, token).Err()
	}
	return release, nil
}

func (l *RequestLocker) key(requestID string) string {
	return "lock:request:" + requestID
}
