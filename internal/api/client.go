// Package api is the data access layer for the remote social media API. Every
// read path degrades to the injected mock dataset when the remote API keeps
// failing, so readers always get a list back.
package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"socialpulse/internal/mockdata"

	"github.com/google/uuid"
)

const (
	dialTimeout           = 10 * time.Second
	defaultRequestTimeout = 30 * time.Second

	DefaultRetries          = 2
	DefaultTopUsersLimit    = 5
	DefaultAvatarBaseURL    = "https://i.pravatar.cc/150"
	DefaultPostImageBaseURL = "https://picsum.photos/800/500"
)

// Options configures a Client. Zero values fall back to the defaults above,
// except Retries, which is taken as given.
type Options struct {
	BaseURL          string
	Token            string
	Retries          int
	RequestTimeout   time.Duration
	TopUsersLimit    int
	Timestamps       TimestampPolicy
	Comments         CommentPolicy
	AvatarBaseURL    string
	PostImageBaseURL string

	// Mock is the fallback dataset; mockdata.Default() when nil.
	Mock *mockdata.Dataset
	// HTTPClient overrides the transport stack (tests). Its Transport is still
	// wrapped so that every request is authenticated.
	HTTPClient *http.Client
	// Now overrides the clock used to stamp undated posts.
	Now func() time.Time
}

// DefaultOptions returns options with the documented defaults for baseURL/token.
func DefaultOptions(baseURL, token string) Options {
	return Options{
		BaseURL:       baseURL,
		Token:         token,
		Retries:       DefaultRetries,
		TopUsersLimit: DefaultTopUsersLimit,
		Timestamps:    TimestampFirstSeen,
		Comments:      CommentOptimistic,
	}
}

// Client talks to the remote API. It is safe for concurrent use.
type Client struct {
	baseURL       string
	retries       int
	topUsersLimit int
	timestamps    TimestampPolicy
	comments      CommentPolicy
	avatarBase    string
	imageBase     string

	http    *http.Client
	mock    *mockdata.Dataset
	now     func() time.Time
	stamper *stampCache
}

// NewClient builds a Client from opts.
func NewClient(opts Options) *Client {
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.TopUsersLimit <= 0 {
		opts.TopUsersLimit = DefaultTopUsersLimit
	}
	if opts.Timestamps == "" {
		opts.Timestamps = TimestampFirstSeen
	}
	if opts.Comments == "" {
		opts.Comments = CommentOptimistic
	}
	if opts.AvatarBaseURL == "" {
		opts.AvatarBaseURL = DefaultAvatarBaseURL
	}
	if opts.PostImageBaseURL == "" {
		opts.PostImageBaseURL = DefaultPostImageBaseURL
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.Mock == nil {
		opts.Mock = mockdata.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		retries:       opts.Retries,
		topUsersLimit: opts.TopUsersLimit,
		timestamps:    opts.Timestamps,
		comments:      opts.Comments,
		avatarBase:    opts.AvatarBaseURL,
		imageBase:     opts.PostImageBaseURL,
		http:          newAuthenticatedClient(opts.HTTPClient, opts.Token, opts.RequestTimeout),
		mock:          opts.Mock,
		now:           opts.Now,
		stamper:       &stampCache{seen: make(map[int]time.Time)},
	}
}

// WithCommentPolicy returns a copy of c that submits comments under p. The
// copy shares the transport and the timestamp cache with c.
func (c *Client) WithCommentPolicy(p CommentPolicy) *Client {
	cp := *c
	cp.comments = p
	return &cp
}

// CommentPolicy reports the policy AddComment applies.
func (c *Client) CommentPolicy() CommentPolicy {
	return c.comments
}

// Mock returns the fallback dataset.
func (c *Client) Mock() *mockdata.Dataset {
	return c.mock
}

// authenticatedTransport sets the bearer token and JSON headers on every request.
type authenticatedTransport struct {
	token      string
	underlying http.RoundTripper
}

func (t *authenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if t.token != "" {
		r.Header.Set("Authorization", "Bearer "+t.token)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")
	if r.Header.Get("X-Request-ID") == "" {
		r.Header.Set("X-Request-ID", uuid.NewString())
	}
	return t.underlying.RoundTrip(r)
}

var netDialer = &net.Dialer{
	Timeout: dialTimeout,
}

func newAuthenticatedClient(base *http.Client, token string, timeout time.Duration) *http.Client {
	var underlying http.RoundTripper = &http.Transport{
		DialContext: netDialer.DialContext,
	}
	if base != nil {
		timeout = base.Timeout
		if base.Transport != nil {
			underlying = base.Transport
		} else {
			underlying = http.DefaultTransport
		}
	}

	return &http.Client{
		Transport: &authenticatedTransport{token: token, underlying: underlying},
		Timeout:   timeout,
	}
}

// stampCache remembers the first time an undated post was seen.
type stampCache struct {
	mu   sync.Mutex
	seen map[int]time.Time
}

func (s *stampCache) stamp(postID int, now time.Time) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.seen[postID]; ok {
		return t
	}
	s.seen[postID] = now
	return now
}
