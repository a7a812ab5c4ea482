package dispute

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// QuestionLocker serializes dispute admission per question so a burst of
// concurrent disputes cannot all pass the count check against a stale value.
type QuestionLocker interface {
	Acquire(ctx context.Context, questionID uuid.UUID) (release func(), err error)
}

const (
	lockTTL       = 30 * time.Second
	lockPollEvery = 50 * time.Millisecond
	lockWaitMax   = 5 * time.Second
)

// redisLocker takes a SET NX lease per question. The TTL covers a crashed
// holder; release deletes the key only if the token still matches.
type redisLocker struct {
	rdb *redis.Client
}

func NewRedisLocker(rdb *redis.Client) QuestionLocker {
	return &redisLocker{rdb: rdb}
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func (l *redisLocker) Acquire(ctx context.Context, questionID uuid.UUID) (func(), error) {
	key := "dispute_lock:" + questionID.String()
	token := uuid.NewString()

	deadline := time.Now().Add(lockWaitMax)
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire dispute lock: %w", err)
		}
		if ok {
			return func() {
				_, _ = releaseScript.Run(context.Background(), l.rdb, []string{key}, token).Result()
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("dispute lock for question %s held too long", questionID)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollEvery):
		}
	}
}

// localLocker is the single-process fallback when Redis is not configured.
// Entries are refcounted so the map does not grow with every question ever
// disputed; the last releaser evicts the entry.
type localLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*questionLock
}

type questionLock struct {
	mu   sync.Mutex
	refs int
}

func NewLocalLocker() QuestionLocker {
	return &localLocker{locks: make(map[uuid.UUID]*questionLock)}
}

func (l *localLocker) Acquire(ctx context.Context, questionID uuid.UUID) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[questionID]
	if !ok {
		entry = &questionLock{}
		l.locks[questionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, questionID)
		}
		l.mu.Unlock()
	}, nil
}
