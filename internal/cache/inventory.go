package cache

import (
	"context"
	"fmt"
)

const (
	TopUsersKey      = "data:users:top"
	TrendingPostsKey = "data:posts:trending"
	LatestPostsKey   = "data:posts:latest"
	UserPostsPrefix  = "data:users:%d:posts"
)

func UserPostsKey(userID int) string {
	return fmt.Sprintf(UserPostsPrefix, userID)
}

// InvalidatePostCreated drops the entries a new post by userID makes stale.
func (c *Cache) InvalidatePostCreated(ctx context.Context, userID int) {
	c.Invalidate(ctx, LatestPostsKey, UserPostsKey(userID), TopUsersKey)
}

// InvalidateCommentAdded drops the entries a new comment makes stale.
func (c *Cache) InvalidateCommentAdded(ctx context.Context) {
	c.Invalidate(ctx, TrendingPostsKey, LatestPostsKey)
}
