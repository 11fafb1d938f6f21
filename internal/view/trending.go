package view

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"socialpulse/internal/models"
	"socialpulse/internal/observability"
)

// DefaultCommentUserID is the author id attached to comments.
const DefaultCommentUserID = 1

var (
	// ErrBlankComment is returned when the draft is empty or whitespace.
	ErrBlankComment = errors.New("comment is blank")
	// ErrCommentInFlight is returned while another comment is being submitted.
	ErrCommentInFlight = errors.New("a comment is already being submitted")
)

// TrendingSnapshot is an immutable copy of the Trending state.
type TrendingSnapshot struct {
	Status
	Posts []PostItem `json:"posts"`
	// ExpandedPostID is 0 when no comment box is open.
	ExpandedPostID int    `json:"expandedPostId,omitempty"`
	Draft          string `json:"draft"`
	Submitting     bool   `json:"submitting"`
	// Notice holds the last comment failure message.
	Notice string `json:"notice,omitempty"`
}

// ShowError reports whether the error banner replaces the list.
func (s TrendingSnapshot) ShowError() bool {
	return s.Error != "" && len(s.Posts) == 0
}

// Trending is the most commented posts view with a single comment box.
type Trending struct {
	source        TrendingSource
	images        Images
	commentUserID int
	now           func() time.Time

	mu         sync.Mutex
	posts      []models.Post
	loading    bool
	err        string
	updatedAt  time.Time
	expanded   int
	draft      string
	submitting bool
	notice     string
}

// NewTrending creates the view. Comments are attributed to commentUserID
// (DefaultCommentUserID when zero).
func NewTrending(source TrendingSource, images Images, commentUserID int) *Trending {
	if commentUserID == 0 {
		commentUserID = DefaultCommentUserID
	}
	return &Trending{
		source:        source,
		images:        images,
		commentUserID: commentUserID,
		now:           time.Now,
		loading:       true,
	}
}

// Load fetches the trending posts.
func (v *Trending) Load(ctx context.Context) error {
	ctx = observability.WithView(ctx, "trending")
	ctx, span := observability.StartViewSpan(ctx, "trending", "load")

	v.mu.Lock()
	v.loading = true
	v.mu.Unlock()

	posts, err := v.source.FetchTrendingPosts(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if err != nil {
		v.err = TrendingErrorMessage
		observability.GlobalLogger.ErrorContext(ctx, "trending load failed", "error", err)
		observability.EndSpan(span, err)
		return err
	}
	v.posts = models.ClonePosts(posts)
	v.err = ""
	v.updatedAt = v.now()
	observability.EndSpan(span, nil)
	return nil
}

// ToggleComments opens the comment box of postID, or closes it when it is
// already open. The draft is cleared either way.
func (v *Trending) ToggleComments(postID int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.expanded == postID {
		v.expanded = 0
	} else {
		v.expanded = postID
	}
	v.draft = ""
	v.notice = ""
}

// SetDraft replaces the comment draft.
func (v *Trending) SetDraft(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft = text
}

// SubmitComment posts the current draft on postID.
func (v *Trending) SubmitComment(ctx context.Context, postID int) (models.CommentAck, error) {
	v.mu.Lock()
	text := v.draft
	v.mu.Unlock()
	return v.SubmitText(ctx, postID, text)
}

// SubmitText posts text on postID. Blank text is rejected without a request.
// On success the post's comment count goes up by one and the draft is
// cleared; on failure the draft is kept and Notice is set.
func (v *Trending) SubmitText(ctx context.Context, postID int, text string) (models.CommentAck, error) {
	if strings.TrimSpace(text) == "" {
		return models.CommentAck{}, ErrBlankComment
	}

	v.mu.Lock()
	if v.submitting {
		v.mu.Unlock()
		return models.CommentAck{}, ErrCommentInFlight
	}
	v.submitting = true
	v.notice = ""
	v.mu.Unlock()

	ctx = observability.WithView(ctx, "trending")
	ctx, span := observability.StartViewSpan(ctx, "trending", "comment")
	ack, err := v.source.AddComment(ctx, postID, models.Comment{Body: text, UserID: v.commentUserID})

	v.mu.Lock()
	defer v.mu.Unlock()
	v.submitting = false
	if err != nil {
		v.notice = CommentErrorMessage
		observability.GlobalLogger.ErrorContext(ctx, "add comment failed", "post_id", postID, "error", err)
		observability.EndSpan(span, err)
		return ack, err
	}

	for i := range v.posts {
		if v.posts[i].ID == postID {
			v.posts[i].CommentCount++
		}
	}
	v.draft = ""
	observability.EndSpan(span, nil)
	return ack, nil
}

// Snapshot returns the current state.
func (v *Trending) Snapshot() TrendingSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return TrendingSnapshot{
		Status:         Status{Loading: v.loading, Error: v.err, UpdatedAt: v.updatedAt},
		Posts:          postItems(v.posts, v.images),
		ExpandedPostID: v.expanded,
		Draft:          v.draft,
		Submitting:     v.submitting,
		Notice:         v.notice,
	}
}
