package term

import (
	"bytes"
	"testing"
	"time"

	"socialpulse/internal/models"
	"socialpulse/internal/view"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestRenderFeed(t *testing.T) {
	var buf bytes.Buffer
	RenderFeed(&buf, view.FeedSnapshot{
		Status: view.Status{UpdatedAt: time.Now()},
		Posts: []view.PostItem{
			{Post: models.Post{ID: 5, UserID: 4, Username: "user4", Title: "Fifth Post", CommentCount: 3,
				CreatedAt: time.Date(2023, 7, 5, 12, 0, 0, 0, time.UTC)}, ImageURL: "https://picsum.photos/800/500?random=5"},
			{Post: models.Post{ID: 9, UserID: 2, Title: "Undated"}},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Latest Posts")
	assert.Contains(t, out, "Fifth Post")
	assert.Contains(t, out, "user4")
	assert.Contains(t, out, "User 2")
	assert.Contains(t, out, "unknown")
	assert.Contains(t, out, "random=5")
}

func TestRenderFeed_States(t *testing.T) {
	var buf bytes.Buffer
	RenderFeed(&buf, view.FeedSnapshot{Status: view.Status{Loading: true}})
	assert.Contains(t, buf.String(), "Loading...")

	buf.Reset()
	RenderFeed(&buf, view.FeedSnapshot{Status: view.Status{Error: view.FeedErrorMessage}})
	assert.Contains(t, buf.String(), "Error! "+view.FeedErrorMessage)

	buf.Reset()
	RenderFeed(&buf, view.FeedSnapshot{})
	assert.Contains(t, buf.String(), view.FeedEmptyMessage)
}

func TestRenderTopUsers_Expanded(t *testing.T) {
	var buf bytes.Buffer
	RenderTopUsers(&buf, view.TopUsersSnapshot{
		Users: []view.UserItem{
			{User: models.User{ID: 1, PostCount: 25}, DisplayName: "user1", AvatarURL: "https://i.pravatar.cc/150?u=1"},
			{User: models.User{ID: 2, PostCount: 18}, DisplayName: "user2"},
		},
		SelectedUserID: 2,
	})

	out := buf.String()
	assert.Contains(t, out, "user1")
	assert.Contains(t, out, "u=1")
	assert.Contains(t, out, "Posts by user 2")
	assert.Contains(t, out, view.UserPostsEmptyMessage)
}

func TestRenderTrending_CommentBox(t *testing.T) {
	var buf bytes.Buffer
	RenderTrending(&buf, view.TrendingSnapshot{
		Posts:          []view.PostItem{{Post: models.Post{ID: 1, Title: "First Post", CommentCount: 16}}},
		ExpandedPostID: 1,
		Notice:         view.CommentErrorMessage,
	})

	out := buf.String()
	assert.Contains(t, out, "First Post")
	assert.Contains(t, out, "16")
	assert.Contains(t, out, "Comment on #1: (empty)")
	assert.Contains(t, out, view.CommentErrorMessage)
}

func TestRenderCommentAck(t *testing.T) {
	var buf bytes.Buffer
	RenderCommentAck(&buf, 3, models.CommentAck{Success: true, Synthetic: true, Message: "Comment added (mock)"})
	assert.Contains(t, buf.String(), "Comment added (mock) (post #3)")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b c", truncate("a\n b   c", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
