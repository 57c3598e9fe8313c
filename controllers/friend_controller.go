package controllers

import (
	"encoding/json"
	"net/http"

	"voxlink_server/helpers"
	"voxlink_server/middleware"
	"voxlink_server/services"
)

// FriendController handles the friend graph endpoints
type FriendController struct {
	Friends *services.FriendService
	Users   *services.UserService
}

// NewFriendController initializes the friend controller
func NewFriendController(friends *services.FriendService, users *services.UserService) *FriendController {
	return &FriendController{Friends: friends, Users: users}
}

// SendRequest handles POST /api/friends/request
func (c *FriendController) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var payload struct {
		RecipientID string `json:"recipientId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.RecipientID == "" {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, helpers.APIResponse{Success: false, Message: "recipientId is required"})
		return
	}

	if err := c.Friends.SendRequest(r.Context(), userID, payload.RecipientID); err != nil {
		helpers.WriteJSONError(w, err, "Failed to send friend request")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, helpers.APIResponse{Success: true, Message: "Friend request sent successfully"})
}

// AcceptRequest handles POST /api/friends/accept
func (c *FriendController) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var payload struct {
		RequestID string `json:"requestId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.RequestID == "" {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, helpers.APIResponse{Success: false, Message: "requestId is required"})
		return
	}

	if err := c.Friends.AcceptRequest(r.Context(), userID, payload.RequestID); err != nil {
		helpers.WriteJSONError(w, err, "Failed to accept friend request")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, helpers.APIResponse{Success: true, Message: "Friend request accepted"})
}

// RejectRequest handles POST /api/friends/reject
func (c *FriendController) RejectRequest(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var payload struct {
		RequestID string `json:"requestId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.RequestID == "" {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, helpers.APIResponse{Success: false, Message: "requestId is required"})
		return
	}

	if err := c.Friends.RejectRequest(r.Context(), userID, payload.RequestID); err != nil {
		helpers.WriteJSONError(w, err, "Failed to reject friend request")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, helpers.APIResponse{Success: true, Message: "Friend request rejected"})
}

// GetRequests handles GET /api/friends/requests
func (c *FriendController) GetRequests(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	requests, err := c.Friends.ListRequests(r.Context(), userID)
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to fetch friend requests")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, helpers.APIResponse{Success: true, Data: requests})
}

// GetFriends handles GET /api/friends
func (c *FriendController) GetFriends(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	friends, err := c.Friends.ListFriends(r.Context(), userID)
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to fetch friends")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, helpers.APIResponse{Success: true, Data: friends})
}

// SearchUsers handles GET /api/friends/search?query=
func (c *FriendController) SearchUsers(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	users, err := c.Users.SearchUsers(r.Context(), r.URL.Query().Get("query"), userID)
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to search users")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, helpers.APIResponse{Success: true, Data: users})
}
