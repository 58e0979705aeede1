package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CostumeRentalService/pkg/keylock"
)

// Local блокировка по ключу в пределах одного процесса
type Local struct {
	locks *keylock.Locker
	wait  time.Duration
}

// NewLocal создает блокировку с ограничением ожидания wait (0 = ждать до отмены контекста)
func NewLocal(wait time.Duration) *Local {
	return &Local{locks: keylock.New(), wait: wait}
}

// Lock ждёт ключ и возвращает функцию освобождения
func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	waitCtx := ctx
	if l.wait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	unlock, err := l.locks.Lock(waitCtx, key)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: key=%s", ErrLockTimeout, key)
		}
		return nil, err
	}

	return unlock, nil
}
