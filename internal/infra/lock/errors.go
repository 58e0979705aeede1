package lock

import "errors"

var (
	// ErrLockTimeout возвращается, если блокировку не удалось взять за отведённое время
	ErrLockTimeout = errors.New("lock: wait timeout")

	// ErrLockBackend возвращается при ошибке хранилища блокировок
	ErrLockBackend = errors.New("lock: backend error")
)
