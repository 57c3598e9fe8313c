package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"voxlink_server/helpers"
	"voxlink_server/middleware"
	"voxlink_server/services"

	"github.com/gorilla/mux"
)

// MessageController handles text messaging endpoints
type MessageController struct {
	Chats *services.ChatService
}

// NewMessageController initializes the message controller
func NewMessageController(chats *services.ChatService) *MessageController {
	return &MessageController{Chats: chats}
}

// SendText handles POST /api/messages/text
func (c *MessageController) SendText(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var payload struct {
		RecipientID string `json:"recipient"`
		GroupID     string `json:"groupId"`
		Content     string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, helpers.APIResponse{Success: false, Message: "Invalid request body"})
		return
	}

	message, err := c.Chats.SendText(r.Context(), userID, payload.RecipientID, payload.GroupID, payload.Content)
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to send message")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusCreated, helpers.APIResponse{
		Success: true,
		Message: "Message sent successfully",
		Data:    message,
	})
}

// GetConversation handles GET /api/messages/conversation?recipientId=|groupId=&page=&limit=
func (c *MessageController) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", services.DefaultPageSize)

	messages, err := c.Chats.FetchHistory(r.Context(), userID, r.URL.Query().Get("recipientId"), r.URL.Query().Get("groupId"), page, limit)
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to fetch conversation history")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, helpers.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"messages": messages,
			"pagination": map[string]int{
				"page":  page,
				"limit": limit,
			},
		},
	})
}

// GetConversations handles GET /api/messages/conversations
func (c *MessageController) GetConversations(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	conversations, err := c.Chats.AggregateConversations(r.Context(), userID)
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to fetch conversations")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, helpers.APIResponse{Success: true, Data: conversations})
}

// DeleteMessage handles DELETE /api/messages/{messageId}
func (c *MessageController) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	messageID := mux.Vars(r)["messageId"]

	if err := c.Chats.DeleteMessage(r.Context(), userID, messageID); err != nil {
		helpers.WriteJSONError(w, err, "Failed to delete message")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, helpers.APIResponse{Success: true, Message: "Message deleted successfully"})
}

func queryInt(r *http.Request, name string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
