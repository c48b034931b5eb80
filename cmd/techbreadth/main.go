package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"bruinplan/internal/catalog"
	"bruinplan/internal/jsonio"
	"bruinplan/internal/techbreadth"
)

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	dbPath := getEnvOrDefault("CATALOG_DB", getEnvOrDefault("CATALOG_URL", "database/courses.db"))
	if os.Getenv("CATALOG_KEY") != "" {
		log.Printf("CATALOG_KEY is set but unused: the SQLite-backed catalog store takes no credentials")
	}

	gw, err := catalog.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open catalog: %v", err)
	}
	defer gw.Close()
	session := catalog.NewSession(gw)

	input, err := jsonio.ReadTechBreadthInput(os.Stdin)
	if err != nil {
		log.Fatalf("invalid tech-breadth input: %v", err)
	}

	ctx := context.Background()
	courses, err := session.LookupCourses(ctx, input.Candidates)
	if err != nil {
		log.Fatalf("catalog unavailable: %v", err)
	}

	candidates, err := techbreadth.Rank(input.BreadthArea, input.Transcript, input.Planned, courses)
	if err != nil {
		log.Fatalf("tech-breadth ranking failed: %v", err)
	}

	if err := jsonio.WriteTechBreadthOutput(os.Stdout, candidates); err != nil {
		log.Fatalf("failed to write tech-breadth output: %v", err)
	}
}
