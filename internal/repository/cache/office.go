// Package cache decorates repositories with in-process LRU caches.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"lawdesk-backend/internal/domain"
	"lawdesk-backend/internal/metrics"
	"lawdesk-backend/internal/repository"
)

const officeCacheName = "office"

// OfficeRepository caches GetByID results. Entries are invalidated on Update
// and expire after ttl so other instances' writes become visible.
type OfficeRepository struct {
	repository.OfficeRepository
	cache *expirable.LRU[int32, domain.Office]
}

var _ repository.OfficeRepository = (*OfficeRepository)(nil)

func NewOfficeRepository(next repository.OfficeRepository, size int, ttl time.Duration) *OfficeRepository {
	return &OfficeRepository{
		OfficeRepository: next,
		cache:            expirable.NewLRU[int32, domain.Office](size, nil, ttl),
	}
}

// GetByID returns a copy of the cached office or loads it.
func (r *OfficeRepository) GetByID(ctx context.Context, id int32) (*domain.Office, error) {
	if o, ok := r.cache.Get(id); ok {
		metrics.CacheHits.WithLabelValues(officeCacheName).Inc()
		return &o, nil
	}
	metrics.CacheMisses.WithLabelValues(officeCacheName).Inc()

	o, err := r.OfficeRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Add(id, *o)
	return o, nil
}

func (r *OfficeRepository) Update(ctx context.Context, office *domain.Office) error {
	r.cache.Remove(office.ID)
	if err := r.OfficeRepository.Update(ctx, office); err != nil {
		return err
	}
	r.cache.Remove(office.ID)
	return nil
}

// Len reports the number of cached offices.
func (r *OfficeRepository) Len() int {
	return r.cache.Len()
}
