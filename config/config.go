package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort           = "8080"
	DefaultBackendURL     = "https://schoolbe-lcox.onrender.com"
	DefaultSessionTTL     = 24 * time.Hour
	DefaultRequestTimeout = 15 * time.Second
)

// Config is the server's runtime configuration.
type Config struct {
	Port           string
	BackendURL     string
	RedisAddr      string // empty keeps sessions in memory
	RedisPassword  string
	RedisDB        int
	SessionSecret  string
	SessionTTL     time.Duration
	RequestTimeout time.Duration
	CORSOrigins    []string
	GinMode        string
}

// Load reads .env when present, then the environment.
func Load() Config {
	LoadEnv()
	return FromEnv()
}

// LoadEnv loads a .env file into the environment. A missing file is not an
// error; variables already set win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	} else {
		log.Println(".env file loaded")
	}
}

// FromEnv builds a Config from the current environment.
func FromEnv() Config {
	cfg := Config{
		Port:           GetEnv("PORT", DefaultPort),
		BackendURL:     GetEnv("BACKEND_URL", DefaultBackendURL),
		RedisAddr:      GetEnv("REDIS_ADDR"),
		RedisPassword:  GetEnv("REDIS_PASSWORD"),
		RedisDB:        getInt("REDIS_DB", 0),
		SessionSecret:  GetEnv("SESSION_SECRET"),
		SessionTTL:     getDuration("SESSION_TTL", DefaultSessionTTL),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", DefaultRequestTimeout),
		CORSOrigins:    splitList(GetEnv("CORS_ORIGINS")),
		GinMode:        GetEnv("GIN_MODE"),
	}
	if cfg.SessionSecret == "" {
		log.Println("SESSION_SECRET is not set, using an insecure development secret")
		cfg.SessionSecret = "school-dashboard-dev-secret"
	}
	return cfg
}

// GetEnv returns the variable, or the default when it is unset or blank.
func GetEnv(key string, defaultValue ...string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func getInt(key string, def int) int {
	raw := GetEnv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid %s %q, using %d", key, raw, def)
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := GetEnv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Invalid %s %q, using %s", key, raw, def)
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
