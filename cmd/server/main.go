package main

import (
	"log"
	"net/http"

	"fleet_inventory/internal/config"
	"fleet_inventory/internal/logger"
	"fleet_inventory/internal/middleware"
	"fleet_inventory/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Setup Gin router
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := "0.0.0.0:" + config.GetEnv("HTTP_PORT", "8080")
	log.Println("🚀 Server running at " + addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
