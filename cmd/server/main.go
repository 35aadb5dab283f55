package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"road-status-service/internal/adapters/cache"
	"road-status-service/internal/adapters/geocoding"
	"road-status-service/internal/adapters/repositories"
	"road-status-service/internal/api"
	"road-status-service/internal/api/handlers"
	"road-status-service/internal/config"
	"road-status-service/internal/platform/db"
	"road-status-service/internal/ports"
	"road-status-service/internal/services"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Postgres, Redis, geocoders) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	sqlite, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlite.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(ctx, sqlite, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	geocoder, err := geocoding.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	queryCache, regionCache, closeCaches := openPersistentCaches(ctx, cfg, sqlite)
	defer closeCaches()

	session := openSessionCache(ctx, cfg)

	resolver := services.NewLocationResolver(geocoder, queryCache, session, services.ResolverOptions{
		CountryQualifier: cfg.CountryQualifier,
		Concurrency:      cfg.ResolveConcurrent,
	})
	classifier := services.NewRegionClassifier(geocoder, regionCache, nil)
	parser := services.NewAlternateRouteParser(nil)

	roadworks := &handlers.RoadworkHandler{
		Repo:                 repositories.NewSQLRecordRepository(sqlite, cache.SQLite),
		Resolver:             resolver,
		Classifier:           classifier,
		Parser:               parser,
		CriticalDelayMinutes: cfg.CriticalDelayMinutes,
	}

	router := api.NewRouter(api.Dependencies{
		Health:    &handlers.HealthHandler{DB: sqlite},
		Roadworks: roadworks,
		Routes: &handlers.RouteHandler{
			Roadworks: roadworks,
			Corridor:  services.CorridorOptions{Steps: cfg.CorridorSteps, ToleranceKm: cfg.CorridorToleranceKm},
		},
		Regions:         &handlers.RegionHandler{Classifier: classifier},
		AlternateRoutes: &handlers.AlternateRouteHandler{Parser: parser, Country: cfg.CountryQualifier},
		AllowedOrigins:  splitList(config.Get("CORS_ALLOWED_ORIGINS", "")),
	})

	// Timeouts allow for a cold geocode cache at one request per second upstream.
	log.Printf("Server listening addr=:%s geocoder=%s", cfg.Port, cfg.Geocoder)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func initAndSeed(ctx context.Context, sqlite *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(ctx, sqlite, cache.SQLite); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(ctx, sqlite, cache.SQLite, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// openPersistentCaches prefers a shared Postgres cache when DATABASE_URL is
// set and falls back to the local SQLite file.
func openPersistentCaches(ctx context.Context, cfg config.Config, sqlite *sql.DB) (ports.GeocodeCache, ports.RegionCache, func()) {
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		pg, err := db.Open(cfg.DatabaseURL)
		if err == nil {
			if err = repositories.InitSchema(ctx, pg, cache.Postgres); err != nil {
				pg.Close()
			}
		}
		if err == nil {
			log.Println("geocode caches: postgres")
			return cache.NewSQLGeocodeCache(pg, cache.Postgres), cache.NewSQLRegionCache(pg, cache.Postgres), func() { pg.Close() }
		}
		log.Printf("geocode caches: postgres unavailable, using sqlite: %v", err)
	}

	return cache.NewSQLGeocodeCache(sqlite, cache.SQLite), cache.NewSQLRegionCache(sqlite, cache.SQLite), func() {}
}

func openSessionCache(ctx context.Context, cfg config.Config) ports.SessionCache {
	if cfg.RedisAddr == "" {
		return cache.NewMemorySessionCache()
	}

	client, err := db.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Printf("session cache: redis unavailable, using memory: %v", err)
		return cache.NewMemorySessionCache()
	}
	log.Printf("session cache: redis addr=%s ttl=%s", cfg.RedisAddr, cfg.SessionCacheTTL)
	return cache.NewRedisSessionCache(client, cfg.SessionCacheTTL)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
