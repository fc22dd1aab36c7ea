package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Default set of marketplaces the search is restricted to.
var defaultTrustedDomains = []string{
	"amazon.in",
	"flipkart.com",
	"myntra.com",
	"nykaa.com",
	"snapdeal.com",
}

type Config struct {
	DatabaseURL     string
	RedisURL        string
	OpenAIKey       string
	SerpAPIKey      string
	MetricsPort     string
	HTTPPort        string
	WorkerCount     int
	FetchTimeoutSec int
	TrustedDomains  []string
}

func Load() *Config {
	// Try the repo root first, then the current directory.
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	return &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		SerpAPIKey:      os.Getenv("SERPAPI_KEY"),
		MetricsPort:     getEnv("METRICS_PORT", "9090"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		WorkerCount:     getEnvInt("WORKER_COUNT", 5),
		FetchTimeoutSec: getEnvInt("FETCH_TIMEOUT_SEC", 20),
		TrustedDomains:  getEnvList("TRUSTED_DOMAINS", defaultTrustedDomains),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return d
}

func getEnvList(k string, d []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return d
	}
	return out
}
