package view

import (
	"context"
	"sync"
	"time"

	"socialpulse/internal/models"
	"socialpulse/internal/observability"
)

// TopUsersSnapshot is an immutable copy of the TopUsers state.
type TopUsersSnapshot struct {
	Status
	Users []UserItem `json:"users"`
	// SelectedUserID is 0 when no user is expanded.
	SelectedUserID int        `json:"selectedUserId,omitempty"`
	SelectedPosts  []PostItem `json:"selectedPosts"`
	PostsLoading   bool       `json:"postsLoading"`
}

// ShowError reports whether the error banner replaces the list.
func (s TopUsersSnapshot) ShowError() bool {
	return s.Error != "" && len(s.Users) == 0
}

// TopUsers is the most active users view. At most one user is expanded to
// show their posts.
type TopUsers struct {
	source UserSource
	images Images
	now    func() time.Time

	mu            sync.Mutex
	users         []models.User
	loading       bool
	err           string
	updatedAt     time.Time
	selected      int
	selectedPosts []models.Post
	postsLoading  bool
	selection     uint64
}

// NewTopUsers creates the view.
func NewTopUsers(source UserSource, images Images) *TopUsers {
	return &TopUsers{source: source, images: images, now: time.Now, loading: true}
}

// Load fetches the ranking.
func (v *TopUsers) Load(ctx context.Context) error {
	ctx = observability.WithView(ctx, "top_users")
	ctx, span := observability.StartViewSpan(ctx, "top_users", "load")

	v.mu.Lock()
	v.loading = true
	v.mu.Unlock()

	users, err := v.source.FetchTopUsers(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if err != nil {
		v.err = TopUsersErrorMessage
		observability.GlobalLogger.ErrorContext(ctx, "top users load failed", "error", err)
		observability.EndSpan(span, err)
		return err
	}
	v.users = models.CloneUsers(users)
	v.err = ""
	v.updatedAt = v.now()
	observability.EndSpan(span, nil)
	return nil
}

// Toggle expands userID and loads their posts, or collapses it when it is
// already expanded. Posts of a previous selection are discarded at once.
func (v *TopUsers) Toggle(ctx context.Context, userID int) error {
	ctx = observability.WithView(ctx, "top_users")

	v.mu.Lock()
	v.selection++
	v.selectedPosts = nil
	if v.selected == userID {
		v.selected = 0
		v.postsLoading = false
		v.mu.Unlock()
		return nil
	}
	v.selected = userID
	v.postsLoading = true
	selection := v.selection
	v.mu.Unlock()

	ctx, span := observability.StartViewSpan(ctx, "top_users", "toggle")
	posts, err := v.source.FetchUserPosts(ctx, userID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if selection != v.selection {
		// Superseded by another toggle.
		observability.EndSpan(span, nil)
		return nil
	}
	v.postsLoading = false
	if err != nil {
		v.selectedPosts = nil
		observability.GlobalLogger.ErrorContext(ctx, "user posts load failed", "user_id", userID, "error", err)
		observability.EndSpan(span, err)
		return err
	}
	v.selectedPosts = models.ClonePosts(posts)
	observability.EndSpan(span, nil)
	return nil
}

// Snapshot returns the current state.
func (v *TopUsers) Snapshot() TopUsersSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return TopUsersSnapshot{
		Status:         Status{Loading: v.loading, Error: v.err, UpdatedAt: v.updatedAt},
		Users:          userItems(v.users, v.images),
		SelectedUserID: v.selected,
		SelectedPosts:  postItems(v.selectedPosts, v.images),
		PostsLoading:   v.postsLoading,
	}
}
