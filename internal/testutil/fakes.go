package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/internal/infra/events"
)

// FixedClock часы, которые стоят на месте, пока их не сдвинут
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set переводит часы
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// RecordingCache кеш календаря в памяти со счётчиками обращений
// Поколения ведутся так же, как в Redis: сброс сдвигает поколение, запись сверяет его
type RecordingCache struct {
	mu          sync.Mutex
	entries     map[string]domain.Availability
	generations map[string]int64
	Err         error
	Hits        int
	Sets        int
	SkippedSets int
	Invalidated []string

	// BeforeSet вызывается перед записью календаря, вне блокировки кеша
	BeforeSet func()
}

func NewRecordingCache() *RecordingCache {
	return &RecordingCache{
		entries:     make(map[string]domain.Availability),
		generations: make(map[string]int64),
	}
}

func cacheKey(costumeID int64, size string) string {
	return fmt.Sprintf("%d:%s", costumeID, size)
}

func (c *RecordingCache) GetBookedDates(ctx context.Context, costumeID int64, size string) (*domain.Availability, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, false, c.Err
	}
	a, ok := c.entries[cacheKey(costumeID, size)]
	if !ok {
		return nil, false, nil
	}
	c.Hits++
	return &a, true, nil
}

func (c *RecordingCache) BookedDatesGeneration(ctx context.Context, costumeID int64, size string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return 0, c.Err
	}
	return c.generations[cacheKey(costumeID, size)], nil
}

func (c *RecordingCache) SetBookedDates(ctx context.Context, costumeID int64, size string, generation int64, availability *domain.Availability) (bool, error) {
	c.mu.Lock()
	hook := c.BeforeSet
	c.BeforeSet = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return false, c.Err
	}
	key := cacheKey(costumeID, size)
	if c.generations[key] != generation {
		c.SkippedSets++
		return false, nil
	}
	c.Sets++
	c.entries[key] = *availability
	return true, nil
}

func (c *RecordingCache) InvalidateBookedDates(ctx context.Context, costumeID int64, size string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey(costumeID, size)
	c.Invalidated = append(c.Invalidated, key)
	if c.Err != nil {
		return c.Err
	}
	c.generations[key]++
	delete(c.entries, key)
	return nil
}

// Cached есть ли запись для размера
func (c *RecordingCache) Cached(costumeID int64, size string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[cacheKey(costumeID, size)]
	return ok
}

// InvalidationCount сколько раз сбрасывался кеш
func (c *RecordingCache) InvalidationCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Invalidated)
}

// RecordingPublisher запоминает опубликованные события
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	Err    error
}

func (p *RecordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, event)
	return nil
}

// Events копия опубликованных событий
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// RecordingMetrics считает исходы операций по виду ошибки
type RecordingMetrics struct {
	mu          sync.Mutex
	Admissions  map[string]int
	Transitions map[string]int
	Adjustments map[string]int
}

func NewRecordingMetrics() *RecordingMetrics {
	return &RecordingMetrics{
		Admissions:  make(map[string]int),
		Transitions: make(map[string]int),
		Adjustments: make(map[string]int),
	}
}

func (m *RecordingMetrics) ObserveAdmission(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Admissions[result]++
}

func (m *RecordingMetrics) ObserveTransition(from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transitions[from+"->"+to]++
}

func (m *RecordingMetrics) ObserveStockAdjustment(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Adjustments[result]++
}

// Admission число приёмов с данным исходом
func (m *RecordingMetrics) Admission(result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Admissions[result]
}
