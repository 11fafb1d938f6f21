package view

import (
	"context"
	"errors"
	"testing"

	"socialpulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTopUsersStub() *stubUsers {
	return &stubUsers{
		topUsers: func(context.Context) ([]models.User, error) {
			return []models.User{{ID: 1, Username: "user1", PostCount: 25}, {ID: 2, Username: "user2", PostCount: 18}}, nil
		},
		userPosts: func(_ context.Context, userID int) ([]models.Post, error) {
			return []models.Post{{ID: userID * 10, UserID: userID}}, nil
		},
	}
}

func TestTopUsers_Load(t *testing.T) {
	v := NewTopUsers(newTopUsersStub(), fakeImages{})
	assert.True(t, v.Snapshot().Loading)

	require.NoError(t, v.Load(context.Background()))
	snap := v.Snapshot()
	assert.False(t, snap.Loading)
	require.Len(t, snap.Users, 2)
	assert.Equal(t, "user1", snap.Users[0].DisplayName)
	assert.Equal(t, "avatar-1", snap.Users[0].AvatarURL)
}

func TestTopUsers_LoadFailure(t *testing.T) {
	src := newTopUsersStub()
	src.topUsers = func(context.Context) ([]models.User, error) { return nil, context.Canceled }
	v := NewTopUsers(src, fakeImages{})

	assert.Error(t, v.Load(context.Background()))
	snap := v.Snapshot()
	assert.True(t, snap.ShowError())
	assert.Equal(t, TopUsersErrorMessage, snap.Error)
}

func TestTopUsers_Toggle(t *testing.T) {
	v := NewTopUsers(newTopUsersStub(), fakeImages{})
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	require.NoError(t, v.Toggle(ctx, 1))
	snap := v.Snapshot()
	assert.Equal(t, 1, snap.SelectedUserID)
	assert.Equal(t, []int{10}, itemIDs(snap.SelectedPosts))
	assert.False(t, snap.PostsLoading)

	require.NoError(t, v.Toggle(ctx, 2))
	snap = v.Snapshot()
	assert.Equal(t, 2, snap.SelectedUserID)
	assert.Equal(t, []int{20}, itemIDs(snap.SelectedPosts))

	require.NoError(t, v.Toggle(ctx, 2))
	snap = v.Snapshot()
	assert.Zero(t, snap.SelectedUserID)
	assert.Empty(t, snap.SelectedPosts)
}

func TestTopUsers_ToggleDiscardsPreviousPostsWhileLoading(t *testing.T) {
	src := newTopUsersStub()
	release := make(chan struct{})
	entered := make(chan struct{})
	v := NewTopUsers(src, fakeImages{})
	ctx := context.Background()

	require.NoError(t, v.Toggle(ctx, 1))

	src.userPosts = func(_ context.Context, userID int) ([]models.Post, error) {
		close(entered)
		<-release
		return []models.Post{{ID: userID * 10}}, nil
	}
	done := make(chan error, 1)
	go func() { done <- v.Toggle(ctx, 2) }()
	<-entered

	snap := v.Snapshot()
	assert.Equal(t, 2, snap.SelectedUserID)
	assert.True(t, snap.PostsLoading)
	assert.Empty(t, snap.SelectedPosts, "posts of user 1 must not show under user 2")

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, []int{20}, itemIDs(v.Snapshot().SelectedPosts))
}

func TestTopUsers_CollapseWhileLoadingDropsLateResult(t *testing.T) {
	src := newTopUsersStub()
	release := make(chan struct{})
	entered := make(chan struct{})
	src.userPosts = func(context.Context, int) ([]models.Post, error) {
		close(entered)
		<-release
		return []models.Post{{ID: 99}}, nil
	}
	v := NewTopUsers(src, fakeImages{})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- v.Toggle(ctx, 1) }()
	<-entered
	require.NoError(t, v.Toggle(ctx, 1))

	close(release)
	require.NoError(t, <-done)
	snap := v.Snapshot()
	assert.Zero(t, snap.SelectedUserID)
	assert.Empty(t, snap.SelectedPosts)
}

func TestTopUsers_ToggleFailureClearsPosts(t *testing.T) {
	src := newTopUsersStub()
	src.userPosts = func(context.Context, int) ([]models.Post, error) { return nil, errors.New("boom") }
	v := NewTopUsers(src, fakeImages{})

	assert.Error(t, v.Toggle(context.Background(), 1))
	snap := v.Snapshot()
	assert.Equal(t, 1, snap.SelectedUserID)
	assert.Empty(t, snap.SelectedPosts)
	assert.False(t, snap.PostsLoading)
}
