package server

import (
	"socialpulse/internal/models"
	"socialpulse/internal/notifications"
	"socialpulse/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreatePost submits a new post upstream. Upstream failures are not masked.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req models.NewPost
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidateNewPost(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	ctx := c.UserContext()
	post, err := s.rt.API.CreatePost(ctx, req)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewUpstreamError("Failed to create post", err))
	}

	s.cache.InvalidatePostCreated(ctx, req.UserID)
	s.publish(ctx, notifications.EventPostCreated, post)

	return c.Status(fiber.StatusCreated).JSON(post)
}
