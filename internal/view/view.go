// Package view holds the state of the three dashboard views. Each view calls
// the data access layer, keeps the result and exposes immutable snapshots
// that the terminal and HTTP renderers draw from.
package view

import (
	"context"
	"sort"
	"time"

	"socialpulse/internal/models"
)

// Messages shown when a view has nothing to display.
const (
	FeedErrorMessage     = "Failed to fetch posts. Please try again later."
	TopUsersErrorMessage = "Failed to fetch top users. Please try again later."
	TrendingErrorMessage = "Failed to fetch trending posts. Please try again later."
	CommentErrorMessage  = "Failed to add comment. Please try again."

	FeedEmptyMessage      = "No posts yet. Check back soon!"
	TopUsersEmptyMessage  = "No users found."
	UserPostsEmptyMessage = "No posts available for this user."
	TrendingEmptyMessage  = "No trending posts found."
)

// PostSource feeds the Feed view.
type PostSource interface {
	FetchPosts(ctx context.Context) ([]models.Post, error)
}

// UserSource feeds the TopUsers view.
type UserSource interface {
	FetchTopUsers(ctx context.Context) ([]models.User, error)
	FetchUserPosts(ctx context.Context, userID int) ([]models.Post, error)
}

// TrendingSource feeds the Trending view.
type TrendingSource interface {
	FetchTrendingPosts(ctx context.Context) ([]models.Post, error)
	AddComment(ctx context.Context, postID int, comment models.Comment) (models.CommentAck, error)
}

// Images derives placeholder image URLs.
type Images interface {
	RandomAvatar(userID int) string
	RandomPostImage(postID int) string
}

// PostItem is a post ready for display.
type PostItem struct {
	models.Post
	AvatarURL string `json:"avatarUrl"`
	ImageURL  string `json:"imageUrl"`
}

// UserItem is a user ready for display.
type UserItem struct {
	models.User
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

// Status is the load state shared by every view.
type Status struct {
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

func postItems(posts []models.Post, images Images) []PostItem {
	out := make([]PostItem, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostItem{
			Post:      p,
			AvatarURL: images.RandomAvatar(p.UserID),
			ImageURL:  images.RandomPostImage(p.ID),
		})
	}
	return out
}

func userItems(users []models.User, images Images) []UserItem {
	out := make([]UserItem, 0, len(users))
	for _, u := range users {
		out = append(out, UserItem{
			User:        u,
			DisplayName: u.DisplayName(),
			AvatarURL:   images.RandomAvatar(u.ID),
		})
	}
	return out
}

// SortNewestFirst orders posts by creation time, newest first. Undated posts
// go last and ties keep their order.
func SortNewestFirst(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if !a.Dated() {
			return false
		}
		return !b.Dated() || a.CreatedAt.After(b.CreatedAt)
	})
}
