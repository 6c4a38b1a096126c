package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/studyconnect/tutorhub/handlers"
	"github.com/studyconnect/tutorhub/middleware"
)

func ChatRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	rooms := api.Group("/chat-rooms", middleware.Protected())
	rooms.Post("", h.GetOrCreateChatRoom)
	rooms.Get("/as-tutor", h.ListMyTutorRooms)
	rooms.Get("/as-tutee", h.ListMyTuteeRooms)
	rooms.Get("/:roomId/messages", h.GetRoomMessages)
	rooms.Post("/:roomId/messages", h.SendMessage)
	rooms.Delete("/:roomId", h.DeleteChatRoom)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(h.ServeWs))
}
