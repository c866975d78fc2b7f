package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	barbersCacheKey   = "scissorhands:catalog:barbers"
	districtsCacheKey = "scissorhands:catalog:districts"
)

// CatalogCache хранит последний успешный ответ каталога.
// Redis — основное хранилище, локальная копия — на случай его недоступности.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration

	mu        sync.RWMutex
	barbers   []models.Barber
	districts []models.District
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = time.Duration(models.CatalogCacheTTL) * time.Second
	}
	return &CatalogCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *CatalogCache) SetBarbers(ctx context.Context, barbers []models.Barber) {
	c.mu.Lock()
	c.barbers = append([]models.Barber(nil), barbers...)
	c.mu.Unlock()

	if c.client == nil {
		return
	}
	data, err := json.Marshal(barbers)
	if err != nil {
		return
	}
	c.client.Set(ctx, barbersCacheKey, data, c.ttl)
}

func (c *CatalogCache) GetBarbers(ctx context.Context) ([]models.Barber, bool) {
	if c.client != nil {
		data, err := c.client.Get(ctx, barbersCacheKey).Bytes()
		if err == nil {
			var barbers []models.Barber
			if json.Unmarshal(data, &barbers) == nil {
				return barbers, true
			}
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.barbers == nil {
		return nil, false
	}
	return append([]models.Barber(nil), c.barbers...), true
}

func (c *CatalogCache) SetDistricts(ctx context.Context, districts []models.District) {
	c.mu.Lock()
	c.districts = append([]models.District(nil), districts...)
	c.mu.Unlock()

	if c.client == nil {
		return
	}
	data, err := json.Marshal(districts)
	if err != nil {
		return
	}
	c.client.Set(ctx, districtsCacheKey, data, c.ttl)
}

func (c *CatalogCache) GetDistricts(ctx context.Context) ([]models.District, bool) {
	if c.client != nil {
		data, err := c.client.Get(ctx, districtsCacheKey).Bytes()
		if err == nil {
			var districts []models.District
			if json.Unmarshal(data, &districts) == nil {
				return districts, true
			}
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.districts == nil {
		return nil, false
	}
	return append([]models.District(nil), c.districts...), true
}
