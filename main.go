package main

import (
	"log"
	"net/http"
	"os"

	"cove_server/middleware"
	"cove_server/routes"
	"cove_server/services"
	"cove_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize services
	coveService := &services.CoveService{Dynamo: dynamoService}
	reactionService := &services.ReactionService{Dynamo: dynamoService}
	quoteService := &services.QuoteService{Dynamo: dynamoService, Coves: coveService, Reactions: reactionService}
	storyService := &services.StoryService{Dynamo: dynamoService, Coves: coveService, Reactions: reactionService}
	pinService := &services.PinService{Dynamo: dynamoService, Coves: coveService}
	capsuleService := &services.CapsuleService{Dynamo: dynamoService, Coves: coveService}
	memoryService := &services.MemoryService{Dynamo: dynamoService, Coves: coveService, Capsules: capsuleService}
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}

	// Socket.io server for realtime cove rooms
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("socket.io server error: %v", err)
		}
	}()
	defer socketServer.Close()

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()
	routes.RegisterRoutes(r)
	r.Handle("/socket.io/", socketServer.IO())

	// Everything under /api requires a signed bearer token
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Authenticate)

	routes.RegisterCoveRoutes(api, coveService, socketServer)
	routes.RegisterQuoteRoutes(api, quoteService, socketServer)
	routes.RegisterStoryRoutes(api, storyService, socketServer)
	routes.RegisterPinRoutes(api, pinService, socketServer)
	routes.RegisterCapsuleRoutes(api, capsuleService, socketServer)
	routes.RegisterMemoryRoutes(api, memoryService)
	routes.RegisterUserProfileRoutes(api, userProfileService)
	routes.RegisterS3Routes(api)

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
