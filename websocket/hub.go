package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyconnect/tutorhub/models"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

type MessagePayload struct {
	RoomID  string `json:"room_id"`
	Content string `json:"content"`
}

// Hub fans stored chat messages out to the connected counterpart. One
// connection per user id; a newer connection replaces an older one.
type Hub struct {
	db *gorm.DB

	clients map[uuid.UUID]*websocket.Conn
	mu      sync.RWMutex

	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan *models.Message
}

func NewHub(db *gorm.DB) *Hub {
	return &Hub{
		db:         db,
		clients:    make(map[uuid.UUID]*websocket.Conn),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan *models.Message),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client.UserID] = client.Conn
			h.mu.Unlock()
		case client := <-h.Unregister:
			h.mu.Lock()
			if conn, ok := h.clients[client.UserID]; ok && conn == client.Conn {
				delete(h.clients, client.UserID)
			}
			h.mu.Unlock()
		case message := <-h.Broadcast:
			h.deliver(message)
		}
	}
}

// deliver sends a message to the room participant who did not author it.
func (h *Hub) deliver(message *models.Message) {
	var room models.ChatRoom
	if err := h.db.First(&room, "id = ?", message.ChatRoomID).Error; err != nil {
		log.Printf("Hub: room %s lookup failed: %v", message.ChatRoomID, err)
		return
	}

	var recipientProfile uuid.UUID
	var recipientUserID uuid.UUID
	if message.SenderRole == models.SenderRoleTutor {
		recipientProfile = room.TuteeID
		var tutee models.Tutee
		if err := h.db.First(&tutee, "id = ?", recipientProfile).Error; err != nil {
			log.Printf("Hub: tutee %s lookup failed: %v", recipientProfile, err)
			return
		}
		recipientUserID = tutee.UserID
	} else {
		recipientProfile = room.TutorID
		var tutor models.Tutor
		if err := h.db.First(&tutor, "id = ?", recipientProfile).Error; err != nil {
			log.Printf("Hub: tutor %s lookup failed: %v", recipientProfile, err)
			return
		}
		recipientUserID = tutor.UserID
	}

	h.mu.RLock()
	conn, ok := h.clients[recipientUserID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if err := conn.WriteJSON(message); err != nil {
		log.Printf("Hub: send to %s failed: %v", recipientUserID, err)
		conn.Close()
		h.mu.Lock()
		if cur, ok := h.clients[recipientUserID]; ok && cur == conn {
			delete(h.clients, recipientUserID)
		}
		h.mu.Unlock()
	}
}
