package routes

import (
	"voxlink_server/controllers"
	"voxlink_server/services"

	"github.com/gorilla/mux"
)

// RegisterAuthRoutes sets up the public register/login endpoints
func RegisterAuthRoutes(r *mux.Router, users *services.UserService, secret []byte) {
	controller := controllers.NewAuthController(users, secret)

	r.HandleFunc("/register", controller.Register).Methods("POST")
	r.HandleFunc("/login", controller.Login).Methods("POST")
}
