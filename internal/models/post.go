package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Post is a post as returned by the posts endpoints.
type Post struct {
	ID     int `json:"id" yaml:"id"`
	UserID int `json:"userId" yaml:"userId"`
	// Username is denormalized by some upstreams and absent on others.
	Username     string `json:"username,omitempty" yaml:"username,omitempty"`
	Title        string `json:"title" yaml:"title"`
	Body         string `json:"body" yaml:"body"`
	CommentCount int    `json:"commentCount" yaml:"commentCount"`
	// CreatedAt is zero when the upstream did not send one.
	CreatedAt time.Time `json:"createdAt,omitzero" yaml:"createdAt,omitempty"`
}

// createdAtLayouts are the timestamp shapes accepted from upstreams, tried in
// order.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// UnmarshalJSON decodes a post, leaving CreatedAt zero when createdAt is
// missing, null, empty or not a timestamp. Numbers are epoch milliseconds.
func (p *Post) UnmarshalJSON(data []byte) error {
	type plain Post
	aux := struct {
		*plain
		CreatedAt json.RawMessage `json:"createdAt"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.CreatedAt = parseCreatedAt(aux.CreatedAt)
	return nil
}

func parseCreatedAt(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		ms, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil || ms <= 0 {
			return time.Time{}
		}
		return time.UnixMilli(ms).UTC()
	}

	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// AuthorName returns the denormalized username or a generic label.
func (p Post) AuthorName() string {
	if p.Username != "" {
		return p.Username
	}
	return fmt.Sprintf("User %d", p.UserID)
}

// Dated reports whether the post carries a creation timestamp.
func (p Post) Dated() bool {
	return !p.CreatedAt.IsZero()
}

// NewPost is the payload for POST /posts.
type NewPost struct {
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// ClonePosts returns a shallow copy of posts that is never nil.
func ClonePosts(posts []Post) []Post {
	out := make([]Post, len(posts))
	copy(out, posts)
	return out
}

// CloneUsers returns a shallow copy of users that is never nil.
func CloneUsers(users []User) []User {
	out := make([]User, len(users))
	copy(out, users)
	return out
}
