package controllers

import (
	"encoding/json"
	"net/http"

	"voxlink_server/helpers"
	"voxlink_server/middleware"
	"voxlink_server/services"
)

// AuthController handles registration and login
type AuthController struct {
	Users  *services.UserService
	Secret []byte
}

// NewAuthController initializes the auth controller
func NewAuthController(users *services.UserService, secret []byte) *AuthController {
	return &AuthController{Users: users, Secret: secret}
}

type credentialsPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// Register creates a new account and returns a bearer token
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, helpers.APIResponse{Success: false, Message: "Invalid request body"})
		return
	}

	profile, err := c.Users.CreateAccount(r.Context(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to register")
		return
	}

	token, err := middleware.GenerateToken(c.Secret, profile.UserID, profile.Username)
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to issue token")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusCreated, helpers.APIResponse{
		Success: true,
		Message: "Account created successfully",
		Data:    authResponse{Token: token, User: profile},
	})
}

// Login verifies credentials and returns a bearer token
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, helpers.APIResponse{Success: false, Message: "Invalid request body"})
		return
	}

	profile, err := c.Users.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to log in")
		return
	}

	token, err := middleware.GenerateToken(c.Secret, profile.UserID, profile.Username)
	if err != nil {
		helpers.WriteJSONError(w, err, "Failed to issue token")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, helpers.APIResponse{
		Success: true,
		Message: "Logged in successfully",
		Data:    authResponse{Token: token, User: profile},
	})
}
