package handler

import (
	"encoding/json"
	"net/http"

	"lumo-assistant-api/internal/middleware"
	"lumo-assistant-api/internal/service"
	"lumo-assistant-api/pkg/apierror"
	"lumo-assistant-api/pkg/response"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ChatHandler handles the chat endpoint and its realtime socket.
type ChatHandler struct {
	chat *service.ChatService
	log  *zap.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chat *service.ChatService, log *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, log: log}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same trust model as the CORS config: any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ChatRequest is the body for POST /api/v1/chat
type ChatRequest struct {
	Message string `json:"message"`
}

// Send handles POST /api/v1/chat
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Message == "" {
		response.Error(w, apierror.ValidationError("validation failed",
			apierror.FieldError{Field: "message", Message: "message is required"}))
		return
	}

	reply, err := h.chat.Send(r.Context(), middleware.GetActor(r.Context()), req.Message)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, reply)
}

// History handles GET /api/v1/chat/history
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.chat.History(r.Context(), middleware.GetActor(r.Context())))
}

// socketReply is the frame written back for every inbound message.
type socketReply struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

// Socket handles GET /api/v1/chat/ws: a realtime channel that echoes
// the canned assistant reply for every text frame received.
func (h *ChatHandler) Socket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	actor := middleware.GetActor(r.Context())
	h.log.Debug("chat socket opened", zap.String("user_id", actor))

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("chat socket read error", zap.Error(err))
			}
			return
		}

		reply := socketReply{
			Role:    "assistant",
			Message: h.chat.Respond(string(msg)),
		}
		if err := conn.WriteJSON(reply); err != nil {
			h.log.Debug("chat socket write error", zap.Error(err))
			return
		}
	}
}
