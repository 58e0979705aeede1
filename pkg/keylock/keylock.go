// Package keylock реализует взаимное исключение по строковому ключу внутри процесса
package keylock

import (
	"context"
	"sync"
)

// Locker набор мьютексов по ключам
// Запись для ключа удаляется, когда её никто не держит и не ждёт
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

// New создает пустой Locker
func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Lock захватывает ключ, ожидая не дольше, чем позволяет ctx
// Возвращённую функцию освобождения можно вызывать повторно
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.release(key, e)
		})
	}, nil
}

func (l *Locker) release(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// Len возвращает число ключей, которые сейчас захвачены или ожидаются
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
