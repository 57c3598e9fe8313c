package routes

import (
	"voxlink_server/controllers"
	"voxlink_server/middleware"
	"voxlink_server/services"

	"github.com/gorilla/mux"
)

// RegisterFriendRoutes sets up routes for the friend graph under /api/friends
func RegisterFriendRoutes(r *mux.Router, friends *services.FriendService, users *services.UserService, secret []byte) {
	controller := controllers.NewFriendController(friends, users)

	friendRouter := r.PathPrefix("/api/friends").Subrouter()
	friendRouter.Use(middleware.RequireAuth(secret))

	friendRouter.HandleFunc("/request", controller.SendRequest).Methods("POST")
	friendRouter.HandleFunc("/accept", controller.AcceptRequest).Methods("POST")
	friendRouter.HandleFunc("/reject", controller.RejectRequest).Methods("POST")
	friendRouter.HandleFunc("/requests", controller.GetRequests).Methods("GET")
	friendRouter.HandleFunc("/search", controller.SearchUsers).Methods("GET")
	friendRouter.HandleFunc("", controller.GetFriends).Methods("GET")
}
