// util/cache_service.go

package util

import (
	"context"
	"time"

	"github.com/dev-mohitbeniwal/keystone/cache"
	"github.com/dev-mohitbeniwal/keystone/model"
)

// RegisterCacheTypes adds the application types CacheService stores.
func RegisterCacheTypes(types *cache.TypeRegistry) error {
	if err := types.Register("model.User", &model.User{}); err != nil {
		return err
	}
	return types.Register("model.Session", &model.Session{})
}

func UserKey(userID string) string       { return "user:" + userID }
func SessionKey(sessionID string) string { return "session:" + sessionID }

// CacheService is the typed view of the shared cache used by the user
// directory and session handling. Misses are reported as nil, nil.
type CacheService struct {
	client *cache.Client
}

func NewCacheService(client *cache.Client) *CacheService {
	return &CacheService{client: client}
}

func (c *CacheService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, _, err := cache.GetAs[*model.User](ctx, c.client, UserKey(userID))
	return user, err
}

// SetUser caches user with the client's default TTL.
func (c *CacheService) SetUser(ctx context.Context, user *model.User) error {
	return c.client.Set(ctx, UserKey(user.ID), user, 0)
}

// FillUser caches user unless a value is already present, so a read-through
// fill never overwrites a copy written after a change.
func (c *CacheService) FillUser(ctx context.Context, user *model.User) error {
	_, err := c.client.SetIfAbsent(ctx, UserKey(user.ID), user, 0)
	return err
}

func (c *CacheService) DeleteUser(ctx context.Context, userID string) error {
	return c.client.Delete(ctx, UserKey(userID))
}

func (c *CacheService) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	session, _, err := cache.GetAs[*model.Session](ctx, c.client, SessionKey(sessionID))
	return session, err
}

// SetSession stores session until its expiry.
func (c *CacheService) SetSession(ctx context.Context, session *model.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, SessionKey(session.ID), session, ttl)
}

func (c *CacheService) DeleteSession(ctx context.Context, sessionID string) error {
	return c.client.Delete(ctx, SessionKey(sessionID))
}
