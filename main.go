package main

import (
	"log"
	"net/http"
	"os"

	"voxlink_server/controllers"
	"voxlink_server/routes"
	"voxlink_server/services"
	"voxlink_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on process environment")
	}

	secret := []byte(os.Getenv("JWT_SECRET"))
	if len(secret) == 0 {
		log.Fatal("JWT_SECRET must be set")
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Services
	userService := &services.UserService{Dynamo: dynamoService}
	friendService := &services.FriendService{Dynamo: dynamoService, Users: userService}
	chatService := &services.ChatService{Dynamo: dynamoService, Users: userService}
	voiceService := &services.VoiceService{Dynamo: dynamoService, Users: userService}
	mediaService := &services.MediaService{
		Client: services.InitializeS3Client(),
		Bucket: os.Getenv("S3_BUCKET_NAME"),
	}

	// Realtime channel
	rt := socket.NewServer(userService, chatService, secret)
	go func() {
		if err := rt.IO.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer rt.IO.Close()

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	r.HandleFunc("/", controllers.WelcomeHandler).Methods("GET")
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
	r.Handle("/socket.io/", rt.IO)

	// Register routes
	routes.RegisterAuthRoutes(r, userService, secret)
	routes.RegisterFriendRoutes(r, friendService, userService, secret)
	routes.RegisterMessageRoutes(r, chatService, secret)
	routes.RegisterVoiceRoutes(r, voiceService, chatService, mediaService, secret)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
