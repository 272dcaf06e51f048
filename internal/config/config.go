package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers understood by Load.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port string

	StorageDriver     string
	MongoURI          string
	MongoDatabase     string
	MongoTransactions bool

	JWTSecret string
	JWTTTL    time.Duration

	// AdminEmail is promoted to administrator on every successful login.
	AdminEmail   string
	DeclineLast4 string

	UploadDir      string
	UploadMaxBytes int64

	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SeedSampleItems bool
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:              fallback(os.Getenv("PORT"), "4000"),
		StorageDriver:     strings.ToLower(fallback(os.Getenv("STORAGE_DRIVER"), DriverMongo)),
		MongoURI:          strings.TrimSpace(os.Getenv("MONGODB_URI")),
		MongoDatabase:     fallback(os.Getenv("MONGODB_DATABASE"), "campusstore"),
		MongoTransactions: parseBool(os.Getenv("MONGODB_TRANSACTIONS"), true),
		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AdminEmail:        strings.ToLower(fallback(os.Getenv("ADMIN_EMAIL"), "campustech@my.yorku.ca")),
		DeclineLast4:      fallback(os.Getenv("DECLINE_LAST4"), "0000"),
		UploadDir:         fallback(os.Getenv("UPLOAD_DIR"), "uploads"),
		CORSOrigins:       parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		SeedSampleItems:   parseBool(os.Getenv("SEED_SAMPLE_ITEMS"), true),
	}

	minutes := fallback(os.Getenv("JWT_TTL_MINUTES"), "120")
	if ttlMinutes, err := strconv.Atoi(minutes); err == nil && ttlMinutes > 0 {
		cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 2 * time.Hour
	}

	maxBytes := fallback(os.Getenv("UPLOAD_MAX_BYTES"), "5242880")
	if n, err := strconv.ParseInt(maxBytes, 10, 64); err == nil && n > 0 {
		cfg.UploadMaxBytes = n
	} else {
		cfg.UploadMaxBytes = 5 << 20
	}

	if db, err := strconv.Atoi(strings.TrimSpace(os.Getenv("REDIS_DB"))); err == nil {
		cfg.RedisDB = db
	}

	switch cfg.StorageDriver {
	case DriverMongo:
		if cfg.MongoURI == "" {
			return Config{}, errors.New("MONGODB_URI is required")
		}
	case DriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseBool(value string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return b
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
