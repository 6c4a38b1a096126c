package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyconnect/tutorhub/configs"
	"github.com/studyconnect/tutorhub/models"
	"github.com/studyconnect/tutorhub/services"
	"github.com/studyconnect/tutorhub/websocket"
)

// GetOrCreateChatRoom returns the single room between a tutor and a tutee,
// creating it if it does not exist yet. The caller must be one of the two
// participants.
func (h *Handler) GetOrCreateChatRoom(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}

	type Request struct {
		TutorID string `json:"tutor_id" validate:"required,uuid"`
		TuteeID string `json:"tutee_id" validate:"required,uuid"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	tutorID, _ := uuid.Parse(req.TutorID)
	tuteeID, _ := uuid.Parse(req.TuteeID)

	isTutorSide := user.TutorID != nil && *user.TutorID == tutorID
	isTuteeSide := user.TuteeID != nil && *user.TuteeID == tuteeID
	if !isTutorSide && !isTuteeSide {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a participant of this chat room"})
	}

	room, err := services.GetOrCreateRoom(h.DB, tutorID, tuteeID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(room)
}

// ListMyTutorRooms lists the caller's tutor-side rooms, newest activity
// first. Each profile side has its own endpoint.
func (h *Handler) ListMyTutorRooms(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TutorID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor profile not found"})
	}
	rooms, err := services.ListRoomsForTutor(h.DB, *user.TutorID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rooms)
}

func (h *Handler) ListMyTuteeRooms(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TuteeID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutee profile not found"})
	}
	rooms, err := services.ListRoomsForTutee(h.DB, *user.TuteeID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rooms)
}

// GetRoomMessages returns a room's messages in send order.
func (h *Handler) GetRoomMessages(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	roomID, err := uuid.Parse(c.Params("roomId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid room id"})
	}
	room, err := h.roomForParticipant(c, user, roomID)
	if room == nil {
		return err
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	messages, err := services.ListMessages(h.DB, roomID, pageSize, (page-1)*pageSize)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(messages)
}

// SendMessage stores a message over HTTP and pushes it to the counterpart
// if they are connected.
func (h *Handler) SendMessage(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	roomID, err := uuid.Parse(c.Params("roomId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid room id"})
	}
	room, err := h.roomForParticipant(c, user, roomID)
	if room == nil {
		return err
	}

	type Request struct {
		Content string `json:"content" validate:"required"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	role, senderID := senderIdentity(user, room)
	message, err := services.AppendMessage(h.DB, roomID, role, senderID, req.Content)
	if err != nil {
		return fail(c, err)
	}

	if h.Hub != nil {
		h.Hub.Broadcast <- message
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

func (h *Handler) DeleteChatRoom(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	roomID, err := uuid.Parse(c.Params("roomId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid room id"})
	}
	room, err := h.roomForParticipant(c, user, roomID)
	if room == nil {
		return err
	}

	if err := services.DeleteRoom(h.DB, roomID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Chat room deleted"})
}

// roomForParticipant loads the room and checks the caller belongs to it.
// On failure it writes the response and returns a nil room.
func (h *Handler) roomForParticipant(c *fiber.Ctx, user *models.User, roomID uuid.UUID) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := h.DB.First(&room, "id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chat room not found"})
		}
		return nil, fail(c, err)
	}
	isTutorSide := user.TutorID != nil && *user.TutorID == room.TutorID
	isTuteeSide := user.TuteeID != nil && *user.TuteeID == room.TuteeID
	if !isTutorSide && !isTuteeSide {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a participant of this chat room"})
	}
	return &room, nil
}

// senderIdentity picks which side of the room the user is writing as. A
// user holding both profiles in the same room speaks as the tutee.
func senderIdentity(user *models.User, room *models.ChatRoom) (string, uuid.UUID) {
	if user.TuteeID != nil && *user.TuteeID == room.TuteeID {
		return models.SenderRoleTutee, *user.TuteeID
	}
	return models.SenderRoleTutor, *user.TutorID
}

// ServeWs handles a live chat connection. The first frame must be an auth
// message carrying a valid token; afterwards each frame is a message
// payload that is persisted and relayed.
func (h *Handler) ServeWs(c *websocketcontrib.Conn) {
	type AuthMessage struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	var authMsg AuthMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		log.Printf("WebSocket auth failed: invalid or missing auth message: %v", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := parseToken(authMsg.Token)
	if err != nil {
		log.Printf("WebSocket auth failed: invalid token: %v", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}
	userID, err := userIDFromClaims(claims)
	if err != nil {
		log.Printf("WebSocket auth failed: invalid user_id: %v", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid user ID"})
		c.Close()
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "User not found"})
		c.Close()
		return
	}

	client := &websocket.Client{UserID: userID, Conn: c}
	h.Hub.Register <- client
	defer func() {
		h.Hub.Unregister <- client
		c.Close()
	}()

	for {
		var msg websocket.MessagePayload
		if err := c.ReadJSON(&msg); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseAbnormalClosure) {
				log.Printf("WebSocket closed for client %s: %v", userID, err)
			} else {
				log.Printf("WebSocket read error for client %s: %v", userID, err)
			}
			break
		}

		roomID, err := uuid.Parse(msg.RoomID)
		if err != nil {
			_ = c.WriteJSON(fiber.Map{"error": "Invalid room ID"})
			continue
		}
		var room models.ChatRoom
		if err := h.DB.First(&room, "id = ?", roomID).Error; err != nil {
			_ = c.WriteJSON(fiber.Map{"error": "Chat room not found"})
			continue
		}
		isTutorSide := user.TutorID != nil && *user.TutorID == room.TutorID
		isTuteeSide := user.TuteeID != nil && *user.TuteeID == room.TuteeID
		if !isTutorSide && !isTuteeSide {
			_ = c.WriteJSON(fiber.Map{"error": "You are not a participant of this chat room"})
			continue
		}

		role, senderID := senderIdentity(&user, &room)
		message, err := services.AppendMessage(h.DB, roomID, role, senderID, msg.Content)
		if err != nil {
			log.Printf("Failed to save message for client %s: %v", userID, err)
			_ = c.WriteJSON(fiber.Map{"error": "Failed to save message"})
			continue
		}
		h.Hub.Broadcast <- message
	}
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(configs.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// userIDFromClaims extracts the user_id claim without trusting its shape.
// A validly signed token can still carry a missing or non-string claim.
func userIDFromClaims(claims jwt.MapClaims) (uuid.UUID, error) {
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, errors.New("user_id claim missing or not a string")
	}
	return uuid.Parse(raw)
}
