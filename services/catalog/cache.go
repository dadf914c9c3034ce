package catalog

import (
	"context"
	"encoding/json"
	"time"

	"servimarket/models"
	"servimarket/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	serviceCachePrefix = "service:"
	serviceCacheTTL    = 5 * time.Minute
	cacheOpTimeout     = 2 * time.Second
)

func serviceCacheKey(id string) string {
	return serviceCachePrefix + id
}

// cachedService returns the cached listing, or nil on a miss or when caching
// has not been initialized.
func (s *DefaultCatalogService) cachedService(id string) *models.Service {
	cache := utils.GetCacheClient()
	if cache == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()
	data, err := cache.Get(ctx, serviceCacheKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			utils.GetLogger().Warn("Service cache read failed",
				zap.String("serviceID", id), zap.Error(err))
		}
		return nil
	}
	var service models.Service
	if err := json.Unmarshal(data, &service); err != nil {
		utils.GetLogger().Warn("Dropping corrupt service cache entry",
			zap.String("serviceID", id), zap.Error(err))
		s.evictService(id)
		return nil
	}
	return &service
}

func (s *DefaultCatalogService) cacheService(service *models.Service) {
	cache := utils.GetCacheClient()
	if cache == nil {
		return
	}
	data, err := json.Marshal(service)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()
	if err := cache.Set(ctx, serviceCacheKey(service.ID), data, serviceCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("Service cache write failed",
			zap.String("serviceID", service.ID), zap.Error(err))
	}
}

func (s *DefaultCatalogService) evictService(id string) {
	cache := utils.GetCacheClient()
	if cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()
	if err := cache.Del(ctx, serviceCacheKey(id)).Err(); err != nil {
		utils.GetLogger().Warn("Service cache eviction failed",
			zap.String("serviceID", id), zap.Error(err))
	}
}
