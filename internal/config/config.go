package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds mira-client configuration.
type Config struct {
	AppEnv   string // APP_ENV
	AppHost  string // APP_HOST (local control API)
	HTTPPort string // APP_PORT or HTTP_PORT
	LogLevel string // LOG_LEVEL

	// Backend
	APIBaseURL     string // API_BASE_URL, e.g. https://api.mira.social
	SocketURL      string // SOCKET_URL, e.g. wss://api.mira.social/ws
	GeocodeBaseURL string // GEOCODE_BASE_URL (reverse geocoding service)

	// Durable client store (sqlite file)
	StorePath string // STORE_PATH

	// Media upload
	MaxFileSize  int64 // MAX_FILE_SIZE bytes
	MaxImageSide int   // MAX_IMAGE_SIDE px, both width and height ceiling
	JPEGQuality  int   // JPEG_QUALITY re-encode quality

	// Geolocation
	FixTimeout   time.Duration // FIX_TIMEOUT_SECONDS
	FixMaxAge    time.Duration // FIX_MAX_AGE_SECONDS
	WatchTimeout time.Duration // WATCH_TIMEOUT_SECONDS
	WatchMaxAge  time.Duration // WATCH_MAX_AGE_SECONDS

	// Streaming
	STUNServers []string // STUN_SERVERS, comma-separated
}

// Load loads config from environment (.env if present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	maxFile, _ := strconv.ParseInt(getEnv("MAX_FILE_SIZE", "52428800"), 10, 64)
	maxSide, _ := strconv.Atoi(getEnv("MAX_IMAGE_SIDE", "1920"))
	quality, _ := strconv.Atoi(getEnv("JPEG_QUALITY", "85"))
	fixTO, _ := strconv.Atoi(getEnv("FIX_TIMEOUT_SECONDS", "10"))
	fixAge, _ := strconv.Atoi(getEnv("FIX_MAX_AGE_SECONDS", "60"))
	watchTO, _ := strconv.Atoi(getEnv("WATCH_TIMEOUT_SECONDS", "5"))
	watchAge, _ := strconv.Atoi(getEnv("WATCH_MAX_AGE_SECONDS", "300"))

	stun := getEnv("STUN_SERVERS", "stun:stun.l.google.com:19302,stun:stun1.l.google.com:19302")

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		AppHost:        getEnv("APP_HOST", "127.0.0.1"),
		HTTPPort:       firstEnv("APP_PORT", "HTTP_PORT", "8820"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8080"),
		SocketURL:      getEnv("SOCKET_URL", "ws://localhost:8080/ws"),
		GeocodeBaseURL: getEnv("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
		StorePath:      getEnv("STORE_PATH", "mira-client.db"),
		MaxFileSize:    maxFile,
		MaxImageSide:   maxSide,
		JPEGQuality:    quality,
		FixTimeout:     time.Duration(fixTO) * time.Second,
		FixMaxAge:      time.Duration(fixAge) * time.Second,
		WatchTimeout:   time.Duration(watchTO) * time.Second,
		WatchMaxAge:    time.Duration(watchAge) * time.Second,
		STUNServers:    splitList(stun),
	}
	return cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("config: API_BASE_URL is required")
	}
	if c.SocketURL == "" {
		return errors.New("config: SOCKET_URL is required")
	}
	if c.StorePath == "" {
		return errors.New("config: STORE_PATH is required")
	}
	if c.MaxImageSide <= 0 {
		return errors.New("config: MAX_IMAGE_SIDE must be positive")
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return errors.New("config: JPEG_QUALITY must be in 1..100")
	}
	return nil
}

// Addr returns the listen address for the local control API.
func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	keys := keysAndDef[:len(keysAndDef)-1]
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
