// Package validation checks user input before it is sent upstream.
package validation

import (
	"strings"
	"unicode/utf8"

	"socialpulse/internal/models"
)

const (
	maxTitleLen   = 300
	maxBodyLen    = 50000
	maxCommentLen = 2000
)

// ValidateNewPost checks a post before submission.
func ValidateNewPost(p models.NewPost) error {
	if p.UserID <= 0 {
		return models.NewValidationError("Invalid user ID")
	}
	if strings.TrimSpace(p.Title) == "" {
		return models.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(p.Title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 300 characters)")
	}
	if strings.TrimSpace(p.Body) == "" {
		return models.NewValidationError("Body is required")
	}
	if utf8.RuneCountInString(p.Body) > maxBodyLen {
		return models.NewValidationError("Body too long (max 50000 characters)")
	}
	return nil
}

// ValidateCommentLength rejects oversized comments. Blank comments are the
// Trending view's concern.
func ValidateCommentLength(body string) error {
	if utf8.RuneCountInString(body) > maxCommentLen {
		return models.NewValidationError("Comment too long (max 2000 characters)")
	}
	return nil
}
