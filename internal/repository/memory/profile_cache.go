package memory

import (
	"time"

	"collabotree-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ProfileCache holds sender display info used to enrich broadcast payloads.
// It is never consulted for authorization decisions; those are re-queried
// on every operation.
type ProfileCache struct {
	cache *cache.Cache
}

func NewProfileCache() *ProfileCache {
	// Short TTL so display-name changes propagate quickly; purge sweep
	// every few minutes keeps the map small.
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &ProfileCache{
		cache: c,
	}
}

func (r *ProfileCache) Save(user *entity.User) {
	r.cache.Set(user.Id.String(), user, cache.DefaultExpiration)
}

func (r *ProfileCache) Get(userID uuid.UUID) (*entity.User, bool) {
	if x, found := r.cache.Get(userID.String()); found {
		return x.(*entity.User), true
	}
	return nil, false
}

func (r *ProfileCache) Delete(userID uuid.UUID) {
	r.cache.Delete(userID.String())
}
