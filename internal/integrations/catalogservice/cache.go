package catalogservice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ServiceGetter интерфейс источника данных каталога
type ServiceGetter interface {
	GetService(ctx context.Context, serviceID int64) (*Service, error)
}

// CachedClient кеширующая обертка над клиентом каталога.
// Кеш работает в режиме fail-open: при недоступности Redis читаем
// напрямую из каталога, ошибка кеша не становится ошибкой запроса.
type CachedClient struct {
	inner ServiceGetter
	rdb   *redis.Client
	ttl   time.Duration
	log   Logger
}

// NewCachedClient создает кеширующую обертку над клиентом каталога
func NewCachedClient(inner ServiceGetter, rdb *redis.Client, ttl time.Duration, log Logger) *CachedClient {
	return &CachedClient{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
		log:   log,
	}
}

func cacheKey(serviceID int64) string {
	return fmt.Sprintf("catalog:service:%d", serviceID)
}

// GetService получает услугу по идентификатору, сначала проверяя кеш
func (c *CachedClient) GetService(ctx context.Context, serviceID int64) (*Service, error) {
	key := cacheKey(serviceID)

	cached, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		var service Service
		if unmarshalErr := json.Unmarshal([]byte(cached), &service); unmarshalErr == nil {
			return &service, nil
		}
		// Битое значение в кеше: удаляем и идем в каталог
		c.log.Warn("CachedClient: corrupted cache entry for service_id=%d, invalidating", serviceID)
		c.rdb.Del(ctx, key)
	} else if err != redis.Nil {
		c.log.Warn("CachedClient: redis get failed for service_id=%d: %v", serviceID, err)
	}

	service, err := c.inner.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(service)
	if err == nil {
		if setErr := c.rdb.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.log.Warn("CachedClient: redis set failed for service_id=%d: %v", serviceID, setErr)
		}
	}

	return service, nil
}
