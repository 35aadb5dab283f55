// Package config reads service settings from the environment (optionally
// populated from a .env file by the caller).
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Get returns the value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid int key=%s value=%q using=%d", key, v, fallback)
		return fallback
	}
	return n
}

func GetFloat(key string, fallback float64) float64 {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: invalid float key=%s value=%q using=%g", key, v, fallback)
		return fallback
	}
	return f
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: invalid duration key=%s value=%q using=%s", key, v, fallback)
		return fallback
	}
	return d
}

// Config is the full set of server settings.
type Config struct {
	Port        string
	DBPath      string
	SeedPath    string
	DatabaseURL string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	SessionCacheTTL time.Duration

	Geocoder          string
	NominatimURL      string
	ORSAPIKey         string
	ORSURL            string
	UserAgent         string
	GeocoderRatePerS  float64
	CountryQualifier  string
	CountryCode       string
	ResolveConcurrent int

	CorridorToleranceKm  float64
	CorridorSteps        int
	CriticalDelayMinutes int
}

// Load reads every setting with its default.
func Load() Config {
	return Config{
		Port:        Get("PORT", "8080"),
		DBPath:      Get("DB_PATH", "data/app.db"),
		SeedPath:    Get("SEED_PATH", "data/seeds/roadworks.json"),
		DatabaseURL: Get("DATABASE_URL", ""),

		RedisAddr:       Get("REDIS_ADDR", ""),
		RedisPassword:   Get("REDIS_PASSWORD", ""),
		RedisDB:         GetInt("REDIS_DB", 0),
		SessionCacheTTL: GetDuration("GEOCODE_SESSION_TTL", 12*time.Hour),

		Geocoder:          strings.ToLower(Get("GEOCODER", "nominatim")),
		NominatimURL:      Get("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		ORSAPIKey:         Get("ORS_API_KEY", ""),
		ORSURL:            Get("ORS_URL", "https://api.openrouteservice.org"),
		UserAgent:         Get("GEOCODER_USER_AGENT", "Roads-Authority-App/1.0"),
		GeocoderRatePerS:  GetFloat("GEOCODER_RATE_PER_SEC", 1),
		CountryQualifier:  Get("GEOCODER_COUNTRY", "Namibia"),
		CountryCode:       Get("GEOCODER_COUNTRY_CODE", "NA"),
		ResolveConcurrent: GetInt("RESOLVE_CONCURRENCY", 4),

		CorridorToleranceKm:  GetFloat("CORRIDOR_TOLERANCE_KM", 5),
		CorridorSteps:        GetInt("CORRIDOR_STEPS", 50),
		CriticalDelayMinutes: GetInt("CRITICAL_DELAY_MINUTES", 30),
	}
}

// Validate rejects corridor and threshold settings the route and ranking
// services cannot run with. Request overrides use the same ranges.
func (c Config) Validate() error {
	if c.CorridorToleranceKm < 0 || c.CorridorToleranceKm > 100 {
		return fmt.Errorf("config: CORRIDOR_TOLERANCE_KM must be between 0 and 100, got %g", c.CorridorToleranceKm)
	}
	if c.CorridorSteps < 1 || c.CorridorSteps > 1000 {
		return fmt.Errorf("config: CORRIDOR_STEPS must be between 1 and 1000, got %d", c.CorridorSteps)
	}
	if c.CriticalDelayMinutes < 0 {
		return fmt.Errorf("config: CRITICAL_DELAY_MINUTES must not be negative, got %d", c.CriticalDelayMinutes)
	}
	return nil
}
