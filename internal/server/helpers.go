package server

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"socialpulse/internal/models"
	"socialpulse/internal/notifications"
	"socialpulse/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive int.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func parseID(c *fiber.Ctx, param string) (int, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return id, nil
}

// humanizeParam converts a route param name into a label: "id" -> "ID",
// "userId" -> "user ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		return strings.ToLower(strings.Join(splitCamel(param[:len(param)-2]), " ")) + " ID"
	}
	return param
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	return append(words, s[start:])
}

// publish fans e out to every instance through Redis, or to the clients of
// this instance when Redis is not configured.
func (s *Server) publish(ctx context.Context, eventType string, payload any) {
	e, err := notifications.NewEvent(eventType, payload)
	if err != nil {
		observability.GlobalLogger.ErrorContext(ctx, "failed to encode event", "type", eventType, "error", err)
		return
	}

	if s.notifier.Enabled() {
		if err := s.notifier.Publish(ctx, e); err != nil {
			observability.GlobalLogger.WarnContext(ctx, "failed to publish event", "type", eventType, "error", err)
		}
		return
	}
	_ = s.hub.BroadcastEvent(e)
}
