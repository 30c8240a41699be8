package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string
	JWTTTL    time.Duration

	LogLevel  string
	LogFormat string

	// ExportPolicyFile is optional; without it the built-in plan table and caps apply.
	ExportPolicyFile string
	DocRefPrefix     string
	// ExportRateLimit is exports per user per minute; 0 disables the limit.
	ExportRateLimit int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		LogLevel:             getenv("LOG_LEVEL", "info"),
		LogFormat:            getenv("LOG_FORMAT", "text"),
		ExportPolicyFile:     getenv("EXPORT_POLICY_FILE", ""),
		DocRefPrefix:         getenv("DOC_REF_PREFIX", "JP"),
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	limit, err := strconv.Atoi(getenv("EXPORT_RATE_LIMIT", "30"))
	if err != nil || limit < 0 {
		return Config{}, eris.Errorf("invalid EXPORT_RATE_LIMIT %q", os.Getenv("EXPORT_RATE_LIMIT"))
	}
	cfg.ExportRateLimit = limit

	ttl, err := time.ParseDuration(getenv("JWT_TTL", "168h"))
	if err != nil {
		return Config{}, eris.Wrap(err, "invalid JWT_TTL")
	}
	cfg.JWTTTL = ttl

	cfg.JWTSecret = mustGetenv("JWT_SECRET")
	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}
