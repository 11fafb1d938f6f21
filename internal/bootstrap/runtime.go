// Package bootstrap assembles the data access client, Redis and the views from
// configuration.
package bootstrap

import (
	"fmt"
	"net/http"

	"socialpulse/internal/api"
	"socialpulse/internal/cache"
	"socialpulse/internal/config"
	"socialpulse/internal/featureflags"
	"socialpulse/internal/mockdata"
	"socialpulse/internal/view"

	"github.com/redis/go-redis/v9"
)

// Options control runtime initialization behavior.
type Options struct {
	// SkipRedis leaves the runtime without Redis, as one-shot CLI commands do.
	SkipRedis bool
	// HTTPClient overrides the transport of the data access client.
	HTTPClient *http.Client
}

// Runtime is everything the server and the CLI share.
type Runtime struct {
	Config *config.Config
	API    *api.Client
	// Comments is API, switched to the strict comment policy when the
	// strict_comments flag is on for the commenting user.
	Comments *api.Client
	Redis    *redis.Client
	Cache    *cache.Cache
	Flags    *featureflags.Manager

	Feed     *view.Feed
	TopUsers *view.TopUsers
	Trending *view.Trending
}

// InitRuntime loads the mock dataset, connects to Redis (which may leave it
// nil) and builds the views.
func InitRuntime(cfg *config.Config, opts Options) (*Runtime, error) {
	apiOpts := cfg.APIOptions()
	apiOpts.HTTPClient = opts.HTTPClient

	if cfg.MockDataFile != "" {
		ds, err := mockdata.Load(cfg.MockDataFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load mock data: %w", err)
		}
		apiOpts.Mock = ds
	}

	var rdb *redis.Client
	if !opts.SkipRedis {
		rdb = cache.InitRedis(cfg.RedisURL)
	}

	return NewRuntime(cfg, api.NewClient(apiOpts), rdb), nil
}

// NewRuntime wires already-initialized dependencies. rdb may be nil.
func NewRuntime(cfg *config.Config, client *api.Client, rdb *redis.Client) *Runtime {
	flags := featureflags.NewManager(cfg.FeatureFlags)

	comments := client
	if flags.Enabled(featureflags.StrictComments, cfg.CommentUserID) {
		comments = client.WithCommentPolicy(api.CommentStrict)
	}

	return &Runtime{
		Config:   cfg,
		API:      client,
		Comments: comments,
		Redis:    rdb,
		Cache:    cache.New(rdb),
		Flags:    flags,
		Feed:     view.NewFeed(client, client, cfg.FeedPollInterval()),
		TopUsers: view.NewTopUsers(client, client),
		Trending: view.NewTrending(comments, comments, cfg.CommentUserID),
	}
}

// Close stops the feed poller and releases Redis.
func (r *Runtime) Close() error {
	r.Feed.Stop()
	if r.Redis != nil {
		return r.Redis.Close()
	}
	return nil
}
