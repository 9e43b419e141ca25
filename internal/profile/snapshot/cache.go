// Package snapshot keeps a minimal profile copy in Redis for the dashboard
// to read opportunistically. The cache is best-effort: callers log failures
// and move on, and authorization is always re-derived from the persisted
// profile, never from here.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SioxGlobal/performance-dashboard/internal/profile/domain"
)

// Snapshot is the minimal profile view cached per session.
type Snapshot struct {
	UID         string          `json:"uid"`
	Email       string          `json:"email"`
	Role        domain.Role     `json:"role"`
	CompanyIDs  []string        `json:"companyIds"`
	Features    domain.Features `json:"features"`
	DisplayName string          `json:"displayName"`
	PhotoURL    string          `json:"photoURL"`
}

// FromProfile builds the cached view of a profile.
func FromProfile(p *domain.Profile) Snapshot {
	return Snapshot{
		UID:         p.UID,
		Email:       p.Email,
		Role:        p.Role,
		CompanyIDs:  p.Companies(),
		Features:    p.Features,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
	}
}

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache returns a session-scoped snapshot cache. A nil client disables it;
// every method then no-ops.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func key(uid string) string { return "profile_snapshot:" + uid }

func (c *Cache) Put(ctx context.Context, s Snapshot) error {
	if c.rdb == nil {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, key(s.UID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache snapshot %s: %w", s.UID, err)
	}
	return nil
}

// Get returns the cached snapshot or (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, uid string) (*Snapshot, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, key(uid)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", uid, err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", uid, err)
	}
	return &s, nil
}

// Invalidate drops the cached snapshot, used on sign-out.
func (c *Cache) Invalidate(ctx context.Context, uid string) error {
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, key(uid)).Err(); err != nil {
		return fmt.Errorf("invalidate snapshot %s: %w", uid, err)
	}
	return nil
}
