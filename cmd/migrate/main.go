package main

import (
	"github.com/GPT-Engineer-App/fin-track/internal/config" // Custom import path (Config)
	"github.com/GPT-Engineer-App/fin-track/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Apply the schema
}
