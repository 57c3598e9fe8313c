package routes

import (
	"voxlink_server/controllers"
	"voxlink_server/middleware"
	"voxlink_server/services"

	"github.com/gorilla/mux"
)

// RegisterMessageRoutes sets up routes for text messaging under /api/messages
func RegisterMessageRoutes(r *mux.Router, chats *services.ChatService, secret []byte) {
	controller := controllers.NewMessageController(chats)

	messageRouter := r.PathPrefix("/api/messages").Subrouter()
	messageRouter.Use(middleware.RequireAuth(secret))

	messageRouter.HandleFunc("/text", controller.SendText).Methods("POST")
	messageRouter.HandleFunc("/conversation", controller.GetConversation).Methods("GET")
	messageRouter.HandleFunc("/conversations", controller.GetConversations).Methods("GET")
	messageRouter.HandleFunc("/{messageId}", controller.DeleteMessage).Methods("DELETE")
}
