package view

import (
	"context"
	"errors"
	"testing"

	"socialpulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrendingStub(sent *[]models.Comment) *stubTrending {
	return &stubTrending{
		trending: func(context.Context) ([]models.Post, error) {
			return []models.Post{{ID: 1, CommentCount: 15}, {ID: 3, CommentCount: 15}}, nil
		},
		addComment: func(_ context.Context, _ int, c models.Comment) (models.CommentAck, error) {
			*sent = append(*sent, c)
			return models.CommentAck{Success: true}, nil
		},
	}
}

func commentCount(s TrendingSnapshot, postID int) int {
	for _, p := range s.Posts {
		if p.ID == postID {
			return p.CommentCount
		}
	}
	return -1
}

func TestTrending_ToggleComments(t *testing.T) {
	var sent []models.Comment
	v := NewTrending(newTrendingStub(&sent), fakeImages{}, 0)

	v.ToggleComments(1)
	v.SetDraft("half written")
	assert.Equal(t, 1, v.Snapshot().ExpandedPostID)

	v.ToggleComments(3)
	snap := v.Snapshot()
	assert.Equal(t, 3, snap.ExpandedPostID)
	assert.Empty(t, snap.Draft)

	v.ToggleComments(3)
	assert.Zero(t, v.Snapshot().ExpandedPostID)
}

func TestTrending_SubmitIncrementsCountAndClearsDraft(t *testing.T) {
	var sent []models.Comment
	v := NewTrending(newTrendingStub(&sent), fakeImages{}, 0)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	v.ToggleComments(3)
	v.SetDraft("Great post")
	ack, err := v.SubmitComment(ctx, 3)
	require.NoError(t, err)
	assert.True(t, ack.Success)

	snap := v.Snapshot()
	assert.Equal(t, 16, commentCount(snap, 3))
	assert.Equal(t, 15, commentCount(snap, 1))
	assert.Empty(t, snap.Draft)
	assert.Equal(t, 3, snap.ExpandedPostID, "comment box stays open")
	assert.Equal(t, []models.Comment{{Body: "Great post", UserID: DefaultCommentUserID}}, sent)
}

func TestTrending_BlankDraftIsIgnored(t *testing.T) {
	var sent []models.Comment
	v := NewTrending(newTrendingStub(&sent), fakeImages{}, 0)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	v.SetDraft("   \n\t")
	_, err := v.SubmitComment(ctx, 1)
	assert.ErrorIs(t, err, ErrBlankComment)
	assert.Empty(t, sent)
	assert.Equal(t, 15, commentCount(v.Snapshot(), 1))
}

func TestTrending_FailureKeepsDraftAndSetsNotice(t *testing.T) {
	var sent []models.Comment
	src := newTrendingStub(&sent)
	src.addComment = func(context.Context, int, models.Comment) (models.CommentAck, error) {
		return models.CommentAck{}, errors.New("upstream down")
	}
	v := NewTrending(src, fakeImages{}, 7)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	v.SetDraft("hello")
	_, err := v.SubmitComment(ctx, 1)
	require.Error(t, err)

	snap := v.Snapshot()
	assert.Equal(t, CommentErrorMessage, snap.Notice)
	assert.Equal(t, "hello", snap.Draft)
	assert.Equal(t, 15, commentCount(snap, 1))
	assert.False(t, snap.Submitting)
}

func TestTrending_SyntheticAckStillCounts(t *testing.T) {
	var sent []models.Comment
	src := newTrendingStub(&sent)
	src.addComment = func(_ context.Context, _ int, c models.Comment) (models.CommentAck, error) {
		sent = append(sent, c)
		return models.CommentAck{Success: true, Synthetic: true, Message: "Comment added (mock)"}, nil
	}
	v := NewTrending(src, fakeImages{}, 42)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	ack, err := v.SubmitText(ctx, 1, "hi")
	require.NoError(t, err)
	assert.True(t, ack.Synthetic)
	assert.Equal(t, 16, commentCount(v.Snapshot(), 1))
	assert.Equal(t, 42, sent[0].UserID)
}

func TestTrending_RejectsConcurrentSubmit(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	src := &stubTrending{
		trending: func(context.Context) ([]models.Post, error) { return nil, nil },
		addComment: func(context.Context, int, models.Comment) (models.CommentAck, error) {
			close(entered)
			<-release
			return models.CommentAck{Success: true}, nil
		},
	}
	v := NewTrending(src, fakeImages{}, 0)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := v.SubmitText(ctx, 1, "first")
		done <- err
	}()
	<-entered

	assert.True(t, v.Snapshot().Submitting)
	_, err := v.SubmitText(ctx, 1, "second")
	assert.ErrorIs(t, err, ErrCommentInFlight)

	close(release)
	require.NoError(t, <-done)
}

func TestTrending_LoadFailureShowsBanner(t *testing.T) {
	var sent []models.Comment
	src := newTrendingStub(&sent)
	src.trending = func(context.Context) ([]models.Post, error) { return nil, context.DeadlineExceeded }
	v := NewTrending(src, fakeImages{}, 0)

	assert.Error(t, v.Load(context.Background()))
	assert.True(t, v.Snapshot().ShowError())
}
