package routes

import (
	"voxlink_server/controllers"
	"voxlink_server/middleware"
	"voxlink_server/services"

	"github.com/gorilla/mux"
)

// RegisterVoiceRoutes sets up voice note and voice message routes under /api/voice
func RegisterVoiceRoutes(r *mux.Router, voice *services.VoiceService, chats *services.ChatService, media services.MediaStore, secret []byte) {
	controller := controllers.NewVoiceController(voice, chats, media)

	voiceRouter := r.PathPrefix("/api/voice").Subrouter()
	voiceRouter.Use(middleware.RequireAuth(secret))

	voiceRouter.HandleFunc("/notes", controller.CreateNote).Methods("POST")
	voiceRouter.HandleFunc("/notes", controller.ListNotes).Methods("GET")
	voiceRouter.HandleFunc("/notes/{noteId}/like", controller.LikeNote).Methods("POST")
	voiceRouter.HandleFunc("/notes/{noteId}/comments", controller.CommentNote).Methods("POST")
	voiceRouter.HandleFunc("/feed", controller.Feed).Methods("GET")
	voiceRouter.HandleFunc("/messages", controller.SendVoiceMessage).Methods("POST")
	voiceRouter.HandleFunc("/messages", controller.GetVoiceMessages).Methods("GET")
	voiceRouter.HandleFunc("/media", controller.MediaURL).Methods("GET")
}
