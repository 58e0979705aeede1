package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Снимаем блокировку, только если она всё ещё наша
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis распределённая блокировка по ключу (SET NX PX с токеном владельца)
type Redis struct {
	client        *redis.Client
	ttl           time.Duration
	wait          time.Duration
	retryInterval time.Duration
	logger        Logger
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// NewRedis создает блокировку; ttl ограничивает время удержания, wait время ожидания
func NewRedis(client *redis.Client, ttl, wait, retryInterval time.Duration, logger Logger) *Redis {
	if retryInterval <= 0 {
		retryInterval = 25 * time.Millisecond
	}
	return &Redis{
		client:        client,
		ttl:           ttl,
		wait:          wait,
		retryInterval: retryInterval,
		logger:        logger,
	}
}

// Lock пытается взять ключ, пока не истечёт wait или контекст
func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := "lock:" + key
	token := uuid.NewString()
	deadline := time.Now().Add(r.wait)

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: SetNX key=%s: %v", ErrLockBackend, key, err)
		}
		if ok {
			break
		}

		if time.Now().Add(r.retryInterval).After(deadline) {
			return nil, fmt.Errorf("%w: key=%s", ErrLockTimeout, key)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.retryInterval):
		}
	}

	return func() {
		// Снимаем блокировку даже после отмены запроса
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := releaseScript.Run(releaseCtx, r.client, []string{redisKey}, token).Err(); err != nil {
			r.logger.Warn("Redis.Unlock: failed to release key=%s: %v", key, err)
		}
	}, nil
}
