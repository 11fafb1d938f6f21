package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"socialpulse/internal/models"
	"socialpulse/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// Operation names used in logs, metrics and spans.
const (
	OpTopUsers      = "fetch_top_users"
	OpTrendingPosts = "fetch_trending_posts"
	OpPosts         = "fetch_posts"
	OpUserPosts     = "fetch_user_posts"
	OpCreatePost    = "create_post"
	OpAddComment    = "add_comment"
)

// readWithFallback runs a GET with the client's retry budget. On success the
// decoded list goes through normalize; when every attempt fails the fallback
// list is returned instead and the context is marked (see TrackFallback). The
// only error returned is the context's.
func readWithFallback[T any](ctx context.Context, c *Client, op, path string, normalize func([]T) []T, fallback func() []T) ([]T, error) {
	logger := observability.NewAPILogger(op)
	metrics := observability.NewAPIMetrics(op)
	defer metrics.Track()()

	ctx, span := observability.StartAPISpan(ctx, op, http.MethodGet, c.baseURL+path)

	var items []T
	err := c.fetchWithRetry(ctx, op, http.MethodGet, path, nil, &items, c.retries)
	if err == nil {
		if normalize != nil {
			items = normalize(items)
		}
		if items == nil {
			items = []T{}
		}
		metrics.Outcome("live")
		logger.LogSuccess(ctx, len(items))
		observability.EndSpan(span, nil)
		return items, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		metrics.Outcome("error")
		observability.EndSpan(span, ctxErr)
		return nil, ctxErr
	}

	items = fallback()
	markFallback(ctx)
	metrics.Outcome("fallback")
	logger.LogFallback(ctx, err, len(items))
	span.RecordError(err)
	span.SetAttributes(attribute.Bool("api.fallback", true))
	observability.EndSpan(span, nil)
	return items, nil
}

// FetchTopUsers returns the most active users, highest post count first.
func (c *Client) FetchTopUsers(ctx context.Context) ([]models.User, error) {
	return readWithFallback(ctx, c, OpTopUsers, "/users", func(users []models.User) []models.User {
		sort.SliceStable(users, func(i, j int) bool {
			return users[i].PostCount > users[j].PostCount
		})
		if len(users) > c.topUsersLimit {
			users = users[:c.topUsersLimit]
		}
		return users
	}, c.mock.TopUsers)
}

// FetchTrendingPosts returns the posts the upstream considers popular. The
// fallback is every mock post tied at the highest comment count.
func (c *Client) FetchTrendingPosts(ctx context.Context) ([]models.Post, error) {
	return readWithFallback(ctx, c, OpTrendingPosts, "/posts?type=popular", nil, c.mock.MaxCommentPosts)
}

// FetchPosts returns the latest posts with every creation time filled in per
// the timestamp policy. The fallback is the mock set, newest first.
func (c *Client) FetchPosts(ctx context.Context) ([]models.Post, error) {
	return readWithFallback(ctx, c, OpPosts, "/posts?type=latest", c.stampPosts, c.mock.PostsByNewest)
}

// FetchUserPosts returns the posts of one user.
func (c *Client) FetchUserPosts(ctx context.Context, userID int) ([]models.Post, error) {
	path := fmt.Sprintf("/users/%d/post", userID)
	return readWithFallback(ctx, c, OpUserPosts, path, c.stampPosts, func() []models.Post {
		return c.mock.PostsForUser(userID)
	})
}

func (c *Client) stampPosts(posts []models.Post) []models.Post {
	if c.timestamps == TimestampLast {
		return posts
	}

	now := c.now()
	for i := range posts {
		if posts[i].Dated() {
			continue
		}
		if c.timestamps == TimestampNow {
			posts[i].CreatedAt = now
			continue
		}
		posts[i].CreatedAt = c.stamper.stamp(posts[i].ID, now)
	}
	return posts
}
