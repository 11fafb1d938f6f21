package models

import "encoding/json"

// Comment is the write-only payload for POST /posts/{id}/comments.
type Comment struct {
	Body   string `json:"body"`
	UserID int    `json:"userId"`
}

// CommentAck acknowledges a comment submission.
type CommentAck struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	// Synthetic is set when the acknowledgment was produced locally because the
	// upstream call failed under the optimistic comment policy.
	Synthetic bool `json:"synthetic"`
	// Raw holds the upstream response body, when there was one.
	Raw json.RawMessage `json:"raw,omitempty"`
}
