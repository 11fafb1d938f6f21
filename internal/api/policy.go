package api

import (
	"fmt"
	"strings"
)

// TimestampPolicy decides what an undated post's creation time becomes.
type TimestampPolicy string

const (
	// TimestampFirstSeen stamps an undated post with the time it was first
	// fetched and keeps that stamp on later fetches.
	TimestampFirstSeen TimestampPolicy = "first_seen"
	// TimestampNow stamps undated posts with the current time on every fetch,
	// so they always sort as the newest.
	TimestampNow TimestampPolicy = "now"
	// TimestampLast leaves undated posts without a timestamp; they sort last.
	TimestampLast TimestampPolicy = "last"
)

// ParseTimestampPolicy parses a configuration value; empty means first_seen.
func ParseTimestampPolicy(s string) (TimestampPolicy, error) {
	switch p := TimestampPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return TimestampFirstSeen, nil
	case TimestampFirstSeen, TimestampNow, TimestampLast:
		return p, nil
	default:
		return "", fmt.Errorf("unknown timestamp policy %q", s)
	}
}

// CommentPolicy decides what AddComment does when the upstream call fails.
type CommentPolicy string

const (
	// CommentOptimistic reports a synthetic success so the UI never blocks.
	CommentOptimistic CommentPolicy = "optimistic"
	// CommentStrict returns the upstream failure to the caller.
	CommentStrict CommentPolicy = "strict"
)

// ParseCommentPolicy parses a configuration value; empty means optimistic.
func ParseCommentPolicy(s string) (CommentPolicy, error) {
	switch p := CommentPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return CommentOptimistic, nil
	case CommentOptimistic, CommentStrict:
		return p, nil
	default:
		return "", fmt.Errorf("unknown comment policy %q", s)
	}
}
