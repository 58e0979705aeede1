package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

// Календарь пишется, только если поколение ключа не сдвинулось с момента чтения
var setIfGenerationScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if (current or "0") ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

// RedisCache кеш занятых дат размера
// Запись сбрасывается при каждом изменении броней или стока по ключу,
// а сброс увеличивает поколение ключа
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache создает кеш поверх готового клиента
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

type bookedDatesPayload struct {
	Dates    []string `json:"dates"`
	Capacity int      `json:"capacity"`
	Bookable bool     `json:"bookable"`
}

// GetBookedDates возвращает закешированный календарь; ok=false при промахе
func (c *RedisCache) GetBookedDates(ctx context.Context, costumeID int64, size string) (*domain.Availability, bool, error) {
	data, err := c.client.Get(ctx, bookedDatesKey(costumeID, size)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: GetBookedDates: %v", ErrRedis, err)
	}

	var payload bookedDatesPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, false, fmt.Errorf("%w: GetBookedDates: %v", ErrDecode, err)
	}

	availability := &domain.Availability{
		Dates:    make([]time.Time, 0, len(payload.Dates)),
		Capacity: payload.Capacity,
		Bookable: payload.Bookable,
	}
	for _, s := range payload.Dates {
		date, err := domain.ParseDate(s)
		if err != nil {
			return nil, false, fmt.Errorf("%w: GetBookedDates: %v", ErrDecode, err)
		}
		availability.Dates = append(availability.Dates, date)
	}

	return availability, true, nil
}

// BookedDatesGeneration текущее поколение календаря размера; 0, пока сбросов не было
func (c *RedisCache) BookedDatesGeneration(ctx context.Context, costumeID int64, size string) (int64, error) {
	generation, err := c.client.Get(ctx, generationKey(costumeID, size)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: BookedDatesGeneration: %v", ErrRedis, err)
	}
	return generation, nil
}

// SetBookedDates кладёт календарь в кеш на TTL, если с чтения generation ключ не сбрасывался
// stored=false означает, что календарь устарел ещё до записи
func (c *RedisCache) SetBookedDates(ctx context.Context, costumeID int64, size string, generation int64, availability *domain.Availability) (bool, error) {
	payload := bookedDatesPayload{
		Dates:    make([]string, 0, len(availability.Dates)),
		Capacity: availability.Capacity,
		Bookable: availability.Bookable,
	}
	for _, d := range availability.Dates {
		payload.Dates = append(payload.Dates, domain.FormatDate(d))
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("%w: SetBookedDates: %v", ErrEncode, err)
	}

	stored, err := setIfGenerationScript.Run(ctx, c.client,
		[]string{generationKey(costumeID, size), bookedDatesKey(costumeID, size)},
		strconv.FormatInt(generation, 10), data, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("%w: SetBookedDates: %v", ErrRedis, err)
	}
	return stored == 1, nil
}

// InvalidateBookedDates удаляет календарь размера и сдвигает его поколение
func (c *RedisCache) InvalidateBookedDates(ctx context.Context, costumeID int64, size string) error {
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, generationKey(costumeID, size))
	pipe.Del(ctx, bookedDatesKey(costumeID, size))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: InvalidateBookedDates: %v", ErrRedis, err)
	}
	return nil
}

// Оба ключа размера в одном hash slot, чтобы скрипт работал и в Redis Cluster
func bookedDatesKey(costumeID int64, size string) string {
	return fmt.Sprintf("booked:{%d:%s}", costumeID, size)
}

func generationKey(costumeID int64, size string) string {
	return fmt.Sprintf("booked:{%d:%s}:gen", costumeID, size)
}
