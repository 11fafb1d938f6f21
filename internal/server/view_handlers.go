package server

import (
	"errors"

	"socialpulse/internal/models"
	"socialpulse/internal/notifications"
	"socialpulse/internal/validation"
	"socialpulse/internal/view"

	"github.com/gofiber/fiber/v2"
)

// GetFeed returns the Feed view. Without a running poller, or with
// ?refresh=true, the feed is fetched first.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	if !s.rt.Feed.Running() || c.QueryBool("refresh") {
		_ = s.rt.Feed.Refresh(c.UserContext())
	}
	return c.JSON(s.rt.Feed.Snapshot())
}

// RefreshFeed fetches the feed now and returns the result.
func (s *Server) RefreshFeed(c *fiber.Ctx) error {
	_ = s.rt.Feed.Refresh(c.UserContext())
	return c.JSON(s.rt.Feed.Snapshot())
}

// GetTopUsers returns the TopUsers view, loading it on first use or with
// ?reload=true.
func (s *Server) GetTopUsers(c *fiber.Ctx) error {
	if s.rt.TopUsers.Snapshot().UpdatedAt.IsZero() || c.QueryBool("reload") {
		_ = s.rt.TopUsers.Load(c.UserContext())
	}
	return c.JSON(s.rt.TopUsers.Snapshot())
}

// ToggleTopUser expands or collapses the posts of a ranked user.
func (s *Server) ToggleTopUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	_ = s.rt.TopUsers.Toggle(c.UserContext(), id)
	return c.JSON(s.rt.TopUsers.Snapshot())
}

// GetTrending returns the Trending view, loading it on first use or with
// ?reload=true.
func (s *Server) GetTrending(c *fiber.Ctx) error {
	if s.rt.Trending.Snapshot().UpdatedAt.IsZero() || c.QueryBool("reload") {
		_ = s.rt.Trending.Load(c.UserContext())
	}
	return c.JSON(s.rt.Trending.Snapshot())
}

// ToggleComments opens or closes the comment box of a trending post.
func (s *Server) ToggleComments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	s.rt.Trending.ToggleComments(id)
	return c.JSON(s.rt.Trending.Snapshot())
}

type draftRequest struct {
	Body string `json:"body"`
}

// SetCommentDraft replaces the text of the open comment box.
func (s *Server) SetCommentDraft(c *fiber.Ctx) error {
	var req draftRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	s.rt.Trending.SetDraft(req.Body)
	return c.JSON(s.rt.Trending.Snapshot())
}

type commentRequest struct {
	// Body is sent as typed. When absent the current draft is submitted.
	Body *string `json:"body"`
}

// AddComment submits a comment on a trending post.
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req commentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}

	if req.Body != nil {
		if err := validation.ValidateCommentLength(*req.Body); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
	}

	ctx := c.UserContext()
	var ack models.CommentAck
	if req.Body != nil {
		ack, err = s.rt.Trending.SubmitText(ctx, id, *req.Body)
	} else {
		ack, err = s.rt.Trending.SubmitComment(ctx, id)
	}

	switch {
	case errors.Is(err, view.ErrBlankComment):
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Comment cannot be empty"))
	case errors.Is(err, view.ErrCommentInFlight):
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("A comment is already being submitted"))
	case err != nil:
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewUpstreamError(view.CommentErrorMessage, err))
	}

	s.cache.InvalidateCommentAdded(ctx)
	s.publish(ctx, notifications.EventCommentAdded, fiber.Map{
		"postId":    id,
		"synthetic": ack.Synthetic,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ack":      ack,
		"trending": s.rt.Trending.Snapshot(),
	})
}
