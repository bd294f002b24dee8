package main

import (
	"context"
	"log"
	"os"
	"time"

	"edakit/adapters/postgres"
)

// migrate prepares a Postgres instance for the analysis service: it
// creates the document and dataset tables if they are missing, then
// purges any expired analysis documents. Safe to run repeatedly.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}
	if databaseURL == "" {
		log.Fatal("Usage: migrate <database_url> (or set DATABASE_URL)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := postgres.Connect(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	log.Println("Schema is up to date")

	purged, err := postgres.PurgeExpired(ctx, db)
	if err != nil {
		log.Fatalf("Failed to purge expired documents: %v", err)
	}
	log.Printf("Purged %d expired documents", purged)
}
