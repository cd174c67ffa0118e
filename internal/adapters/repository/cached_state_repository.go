package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-rituals/internal/core/domain"
)

var _ domain.StateRepository = (*CachedStateRepository)(nil)

const stateCacheTTL = 30 * time.Minute

// CachedStateRepository is a read-through Redis cache in front of another
// StateRepository. Redis failures degrade to the underlying store.
type CachedStateRepository struct {
	next  domain.StateRepository
	cache *redis.Client
}

func NewCachedStateRepository(next domain.StateRepository, cache *redis.Client) *CachedStateRepository {
	return &CachedStateRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedStateRepository) cacheKey(key string) string {
	return fmt.Sprintf("state:%s", key)
}

func (r *CachedStateRepository) invalidate(ctx context.Context, key string) {
	if err := r.cache.Del(ctx, r.cacheKey(key)).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate %s: %v", key, err)
	}
}

func (r *CachedStateRepository) Load(ctx context.Context, key string, dest any) (bool, error) {
	ck := r.cacheKey(key)

	val, err := r.cache.Get(ctx, ck).Bytes()
	if err == nil {
		if err := json.Unmarshal(val, dest); err == nil {
			return true, nil
		}

		log.Printf("[CACHE] Corrupted data for %s, cleaning up key", key)
		r.cache.Del(ctx, ck)
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	found, err := r.next.Load(ctx, key, dest)
	if err != nil || !found {
		return found, err
	}

	if data, err := json.Marshal(dest); err == nil {
		if setErr := r.cache.Set(ctx, ck, data, stateCacheTTL).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return true, nil
}

func (r *CachedStateRepository) Save(ctx context.Context, key string, value any) error {
	if err := r.next.Save(ctx, key, value); err != nil {
		return err
	}
	r.invalidate(ctx, key)
	return nil
}
