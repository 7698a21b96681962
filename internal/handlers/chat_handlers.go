package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"coinchat-backend/internal/metrics"
	"coinchat-backend/internal/models"
	"coinchat-backend/internal/services"
	"coinchat-backend/pkg/httputil"
)

// sessionHeader scopes a chat request to a conversation transcript. Optional;
// requests without it share the default session.
const sessionHeader = "session-id"

// ChatHandlers handles HTTP requests for the chat proxy.
type ChatHandlers struct {
	chatService *services.ChatService
}

// NewChatHandlers creates a new ChatHandlers instance.
func NewChatHandlers(chatService *services.ChatService) *ChatHandlers {
	return &ChatHandlers{chatService: chatService}
}

// HandleProxyChat handles POST /proxy/chat.
func (h *ChatHandlers) HandleProxyChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.ChatRequests.WithLabelValues("validation_error").Inc()
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sessionKey := r.Header.Get(sessionHeader)
	if sessionKey == "" {
		sessionKey = services.DefaultSessionKey
	}

	reply, err := h.chatService.HandleMessage(r.Context(), sessionKey, req.Message)
	switch {
	case errors.Is(err, services.ErrValidation):
		metrics.ChatRequests.WithLabelValues("validation_error").Inc()
		httputil.RespondError(w, http.StatusBadRequest, "message is required")
	case err != nil:
		// Upstream detail stays in the logs; callers get a generic message.
		metrics.ChatRequests.WithLabelValues("unavailable").Inc()
		log.Printf("Chat request failed for session %s: %v", sessionKey, err)
		httputil.RespondError(w, http.StatusInternalServerError, "The assistant is unavailable right now. Please try again.")
	default:
		metrics.ChatRequests.WithLabelValues("ok").Inc()
		httputil.RespondJSON(w, http.StatusOK, models.ChatResponse{
			SessionID: sessionKey,
			Message:   reply,
		})
	}
}
