package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type config struct {
	Server    serverConfig
	DBURL     string
	RedisURL  string // optional; rate-limit counters move to Redis when set
	JWTSecret string // optional; enables JWT bearer tokens alongside stored tokens
	AI        aiConfig
	RateLimit int
}

type serverConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
}

type aiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration // per attempt
}

// loadConfig reads .env (if present) and the process environment.
func loadConfig() *config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	timeout, err := time.ParseDuration(getEnv("AI_TIMEOUT", "20s"))
	if err != nil {
		log.Printf("[loadConfig] invalid AI_TIMEOUT, using 20s: %v", err)
		timeout = 20 * time.Second
	}
	limit, _ := strconv.Atoi(getEnv("RATE_LIMIT_PER_DAY", strconv.Itoa(defaultDailyRequestLimit)))

	return &config{
		Server: serverConfig{
			Port:           getEnv("PORT", "3000"),
			GinMode:        getEnv("GIN_MODE", "debug"),
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		DBURL:     os.Getenv("DB_URL"),
		RedisURL:  os.Getenv("REDIS_URL"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		AI: aiConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout: timeout,
		},
		RateLimit: limit,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList parses a comma-separated env value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
