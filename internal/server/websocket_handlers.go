package server

import (
	"socialpulse/internal/featureflags"
	"socialpulse/internal/models"
	"socialpulse/internal/notifications"
	"socialpulse/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketFeedHandler streams feed events. A new client first receives the
// current feed snapshot.
func (s *Server) WebSocketFeedHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		logger := observability.GlobalLogger

		client, err := s.hub.Register(conn)
		if err != nil {
			logger.Warn("feed client rejected", "error", err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}
		logger.Info("feed client connected", "client_id", client.ID, "clients", s.hub.Len())

		if e, err := notifications.NewEvent(notifications.EventFeedSnapshot, s.rt.Feed.Snapshot()); err == nil {
			if raw, err := e.Encode(); err == nil {
				client.TrySend(raw)
			}
		}

		go client.WritePump()
		client.ReadPump()
		logger.Info("feed client disconnected", "client_id", client.ID)
	})

	return func(c *fiber.Ctx) error {
		if !s.featureFlags.Enabled(featureflags.LiveFeed, 0) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				&models.AppError{Code: models.CodeNotFound, Message: "Live feed is disabled"})
		}
		if !websocket.IsWebSocketUpgrade(c) {
			return models.RespondWithError(c, fiber.StatusUpgradeRequired,
				models.NewValidationError("WebSocket upgrade required"))
		}
		return upgrade(c)
	}
}
