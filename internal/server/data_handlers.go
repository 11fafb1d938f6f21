package server

import (
	"context"

	"socialpulse/internal/api"
	"socialpulse/internal/cache"
	"socialpulse/internal/featureflags"
	"socialpulse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Values of the X-Cache response header.
const (
	cacheHit    = "HIT"
	cacheMiss   = "MISS"
	cacheBypass = "BYPASS"
)

// serveCached answers with the list produced by fetch, through Redis when the
// data_cache flag is on and Redis is configured.
func serveCached[T any](s *Server, c *fiber.Ctx, key string, fetch func(context.Context) ([]T, error)) error {
	ttl := s.config.CacheTTL()
	if !s.cache.Enabled() || !s.featureFlags.Enabled(featureflags.DataCache, 0) {
		ttl = 0
	}

	// Mock fallback lists are served but never cached, so the next read goes
	// back to the upstream.
	var items []T
	hit, err := s.cache.Aside(c.UserContext(), key, &items, ttl, func(ctx context.Context) (bool, error) {
		ctx, fellBack := api.TrackFallback(ctx)
		var fetchErr error
		items, fetchErr = fetch(ctx)
		return !fellBack(), fetchErr
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusGatewayTimeout,
			models.NewUpstreamError("Request canceled", err))
	}

	switch {
	case ttl == 0:
		c.Set("X-Cache", cacheBypass)
	case hit:
		c.Set("X-Cache", cacheHit)
	default:
		c.Set("X-Cache", cacheMiss)
	}

	if items == nil {
		items = []T{}
	}
	return c.JSON(items)
}

// GetTopUsersData returns the ranked users.
func (s *Server) GetTopUsersData(c *fiber.Ctx) error {
	return serveCached(s, c, cache.TopUsersKey, s.rt.API.FetchTopUsers)
}

// GetTrendingPostsData returns the posts tied at the highest comment count.
func (s *Server) GetTrendingPostsData(c *fiber.Ctx) error {
	return serveCached(s, c, cache.TrendingPostsKey, s.rt.API.FetchTrendingPosts)
}

// GetLatestPostsData returns the latest posts.
func (s *Server) GetLatestPostsData(c *fiber.Ctx) error {
	return serveCached(s, c, cache.LatestPostsKey, s.rt.API.FetchPosts)
}

// GetUserPostsData returns the posts of one user.
func (s *Server) GetUserPostsData(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	return serveCached(s, c, cache.UserPostsKey(id), func(ctx context.Context) ([]models.Post, error) {
		return s.rt.API.FetchUserPosts(ctx, id)
	})
}
