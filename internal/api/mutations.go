package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"socialpulse/internal/models"
	"socialpulse/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const syntheticCommentMessage = "Comment added (mock)"

// CreatePost submits a new post. Failures are returned as is.
func (c *Client) CreatePost(ctx context.Context, post models.NewPost) (*models.Post, error) {
	logger := observability.NewAPILogger(OpCreatePost)
	metrics := observability.NewAPIMetrics(OpCreatePost)
	defer metrics.Track()()

	ctx, span := observability.StartAPISpan(ctx, OpCreatePost, http.MethodPost, c.baseURL+"/posts")

	var created models.Post
	if err := c.fetchWithRetry(ctx, OpCreatePost, http.MethodPost, "/posts", post, &created, c.retries); err != nil {
		metrics.Outcome("error")
		logger.LogError(ctx, err, map[string]any{"user_id": post.UserID})
		observability.EndSpan(span, err)
		return nil, err
	}

	metrics.Outcome("live")
	logger.LogSuccess(ctx, 1)
	observability.EndSpan(span, nil)
	return &created, nil
}

// AddComment posts a comment on postID. Under the optimistic policy a failed
// submission is reported as a synthetic success; under the strict policy the
// failure is returned.
func (c *Client) AddComment(ctx context.Context, postID int, comment models.Comment) (models.CommentAck, error) {
	logger := observability.NewAPILogger(OpAddComment)
	metrics := observability.NewAPIMetrics(OpAddComment)
	defer metrics.Track()()

	path := fmt.Sprintf("/posts/%d/comments", postID)
	ctx, span := observability.StartAPISpan(ctx, OpAddComment, http.MethodPost, c.baseURL+path)
	span.SetAttributes(attribute.String("api.comment_policy", string(c.comments)))

	var raw json.RawMessage
	err := c.fetchWithRetry(ctx, OpAddComment, http.MethodPost, path, comment, &raw, c.retries)
	if err == nil {
		ack := models.CommentAck{}
		// Providers answer with anything from the created comment to
		// {"success":true,"message":...}; only the message is picked up.
		_ = json.Unmarshal(raw, &ack)
		ack.Success = true
		ack.Synthetic = false
		ack.Raw = raw

		metrics.Outcome("live")
		logger.LogSuccess(ctx, 1)
		observability.EndSpan(span, nil)
		return ack, nil
	}

	fields := map[string]any{"post_id": postID, "policy": string(c.comments)}
	logger.LogError(ctx, err, fields)

	if c.comments == CommentStrict {
		metrics.Outcome("error")
		observability.EndSpan(span, err)
		return models.CommentAck{}, err
	}

	metrics.Outcome("synthetic")
	span.RecordError(err)
	span.SetAttributes(attribute.Bool("api.synthetic", true))
	observability.EndSpan(span, nil)
	return models.CommentAck{Success: true, Message: syntheticCommentMessage, Synthetic: true}, nil
}
