package cache

import (
	"time"

	"hospital-portal/internal/domain/entity"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// ProfileCache keeps resolved user profiles in process memory, keyed by identity id.
type ProfileCache struct {
	store *gocache.Cache
}

func NewProfileCache(ttl, cleanupInterval time.Duration) *ProfileCache {
	return &ProfileCache{store: gocache.New(ttl, cleanupInterval)}
}

func (c *ProfileCache) Get(id uuid.UUID) (*entity.UserProfile, bool) {
	value, ok := c.store.Get(id.String())
	if !ok {
		return nil, false
	}
	profile := value.(entity.UserProfile)
	return &profile, true
}

func (c *ProfileCache) Set(profile *entity.UserProfile) {
	c.store.SetDefault(profile.ID.String(), *profile)
}

func (c *ProfileCache) Delete(id uuid.UUID) {
	c.store.Delete(id.String())
}

func (c *ProfileCache) Len() int {
	return c.store.ItemCount()
}
