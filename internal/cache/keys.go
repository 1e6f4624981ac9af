package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	postKeyPrefix     = "post:%d"
	categoriesListKey = "categories:all"
	profileKeyPrefix  = "profile:%d"
)

// TTLs per cached entity kind.
const (
	PostTTL       = 30 * time.Minute
	CategoriesTTL = 10 * time.Minute
	ProfileTTL    = 5 * time.Minute
)

// PostKey returns the cache key for a post detail view.
func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

// CategoriesKey returns the cache key for the full category list.
func CategoriesKey() string {
	return categoriesListKey
}

// ProfileKey returns the cache key for a social profile.
func ProfileKey(profileID uint) string {
	return fmt.Sprintf(profileKeyPrefix, profileID)
}

// Invalidate removes a single key.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost drops the cached detail view of a post.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidateCategories drops the cached category list.
func InvalidateCategories(ctx context.Context) {
	Invalidate(ctx, CategoriesKey())
}

// InvalidateProfile drops a cached social profile.
func InvalidateProfile(ctx context.Context, profileID uint) {
	Invalidate(ctx, ProfileKey(profileID))
}
