package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"road-status-service/internal/adapters/cache"
	"road-status-service/internal/adapters/repositories"
	"road-status-service/internal/config"
	"road-status-service/internal/platform/db"
	"strings"

	"github.com/joho/godotenv"
)

// dbtool initializes the schema and loads seed records into Postgres
// (DATABASE_URL) or, with -sqlite, into the local SQLite file.
func main() {
	useSQLite := flag.Bool("sqlite", false, "target DB_PATH instead of DATABASE_URL")
	schemaOnly := flag.Bool("schema-only", false, "create tables without seeding")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	var (
		conn    *sql.DB
		dialect cache.Dialect
		err     error
	)
	if *useSQLite {
		conn, err = db.OpenSQLite(config.Get("DB_PATH", "data/app.db"))
		dialect = cache.SQLite
	} else {
		databaseURL := config.Get("DATABASE_URL", "")
		if strings.TrimSpace(databaseURL) == "" {
			log.Fatal("DATABASE_URL is required")
		}
		conn, err = db.Open(databaseURL)
		dialect = cache.Postgres
	}
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/roadworks.json")
	if err := initAndSeed(context.Background(), conn, dialect, seedPath, *schemaOnly); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect cache.Dialect, seedPath string, schemaOnly bool) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return err
	}
	log.Println("Schema ready.")

	if schemaOnly {
		return nil
	}

	log.Printf("Seeding database from %s...", seedPath)
	if err := repositories.SeedFromJSON(ctx, conn, dialect, seedPath); err != nil {
		return err
	}
	log.Println("Seeding complete.")

	return nil
}
