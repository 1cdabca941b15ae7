package slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss возвращается, когда ключа нет в кэше
var ErrCacheMiss = errors.New("slots.cache: cache miss")

// Cache короткоживущий кэш вычисленных слотов на Redis.
// Слоты пересчитываются при каждом промахе; TTL держится коротким,
// потому что занятость меняется с каждым новым бронированием.
// Подтверждение оплаты никогда не полагается на кэш.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New создает кэш слотов поверх клиента Redis
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Key строит ключ кэша для запроса слотов.
// serviceIDs сортируются, чтобы порядок услуг в запросе не плодил ключи.
func Key(salonID int64, date string, serviceIDs []int64) string {
	ids := make([]int64, len(serviceIDs))
	copy(ids, serviceIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}

	return fmt.Sprintf("slots:%d:%s:%s", salonID, date, strings.Join(parts, ","))
}

// Get возвращает сериализованный ответ по ключу
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("slots.cache: get: %w", err)
	}
	return payload, nil
}

// Set сохраняет сериализованный ответ с коротким TTL
func (c *Cache) Set(ctx context.Context, key string, payload []byte) error {
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("slots.cache: set: %w", err)
	}
	return nil
}

// InvalidateDate сбрасывает все закэшированные слоты салона на дату.
// Вызывается при выпуске ордера (появлении нового hold).
func (c *Cache) InvalidateDate(ctx context.Context, salonID int64, date string) error {
	pattern := fmt.Sprintf("slots:%d:%s:*", salonID, date)

	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("slots.cache: del: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("slots.cache: scan: %w", err)
	}
	return nil
}
