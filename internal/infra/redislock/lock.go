// Package redislock is a non-reentrant, lease-based mutual exclusion lock on a
// shared Redis.
package redislock

import (
	"context"
	"time"

	"seckill-service/internal/infra/redisstore"
	"seckill-service/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Deletes the key only when it still holds the caller's token.
var unlockScript = redis.NewScript(`
if redis.call('get', KEYS[1]) == ARGV[1] then
	return redis.call('del', KEYS[1])
end
return 0
`)

// Service hands out locks whose holder tokens carry this process's identity.
type Service struct {
	rdb       redis.Cmdable
	processID string
}

func NewService(rdb redis.Cmdable) *Service {
	return &Service{
		rdb:       rdb,
		processID: uuid.NewString(),
	}
}

func (s *Service) ProcessID() string {
	return s.processID
}

// NewLock returns a handle for one acquisition attempt on resource. Handles
// are not shared between goroutines; each carries its own token.
func (s *Service) NewLock(resource string) *Lock {
	return &Lock{
		rdb:   s.rdb,
		key:   redisstore.LockPrefix + resource,
		token: s.processID + ":" + uuid.NewString(),
	}
}

type Lock struct {
	rdb   redis.Cmdable
	key   string
	token string
}

func (l *Lock) Key() string {
	return l.key
}

// TryLock makes one attempt and never waits. The lease bounds how long a
// crashed holder can block others.
func (l *Lock) TryLock(ctx context.Context, lease time.Duration) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, l.key, l.token, lease).Result()
	if err != nil {
		return false, redisstore.Unavailable(err, "acquire lock "+l.key)
	}
	return ok, nil
}

// Unlock releases the lock only if this handle still holds it. A lease that
// already expired, or was taken over by another holder, yields ErrLockNotHeld.
func (l *Lock) Unlock(ctx context.Context) error {
	released, err := unlockScript.Run(ctx, l.rdb, []string{l.key}, l.token).Int64()
	if err != nil {
		return redisstore.Unavailable(err, "release lock "+l.key)
	}
	if released == 0 {
		return errs.Mark(errs.New("lock "+l.key+" is not held by this token"), errs.ErrLockNotHeld)
	}
	return nil
}
