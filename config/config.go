package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Threshold is one alert rule: a 24h delta on Metric at or above Min
// raises an alert labelled with Label. Rules are evaluated in declared
// order so reason lists come out deterministic.
type Threshold struct {
	Metric string
	Label  string
	Min    int64
}

// Config holds all application configuration, loaded once at startup
// and handed into each component constructor. Engine code never reads
// the environment directly.
type Config struct {
	CatalogURLs []string

	YouTubeAPIKey string
	XBearerToken  string

	UltracineToken string
	UltracineCty   string

	// Snapshot store backend: "sqlite" (default) or "postgres".
	StoreDriver string
	SQLitePath  string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// GitHub publishing of report artifacts (optional).
	GitHubToken  string
	GitHubRepo   string
	GitHubBranch string

	WindowDays     int
	HTTPTimeoutSec int
	RateLimitMs    int
	MaxRetries     int

	CSVOutputPath  string
	JSONOutputPath string

	Thresholds []Threshold
}

// Load reads config.env (falling back to system env vars) and returns
// a populated Config struct.
func Load() *Config {
	if err := godotenv.Load("config.env"); err != nil {
		log.Println("[config] No config.env file found, falling back to system env vars")
	}

	cfg := &Config{
		YouTubeAPIKey: getEnv("YOUTUBE_API_KEY", ""),
		XBearerToken:  getEnv("X_BEARER_TOKEN", ""),

		UltracineToken: getEnv("ULTRACINE_TOKEN", ""),
		UltracineCty:   getEnv("ULTRACINE_CTY_ID", "ar"),

		StoreDriver: getEnv("STORE_DRIVER", "sqlite"),
		SQLitePath:  getEnv("SQLITE_PATH", "./movie.db"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "estrenos"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", "estrenos_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		GitHubToken:  getEnv("GH_TOKEN", ""),
		GitHubRepo:   getEnv("GH_REPO", ""),
		GitHubBranch: getEnv("GH_BRANCH", "main"),

		WindowDays:     getEnvInt("WINDOW_DAYS", 30),
		HTTPTimeoutSec: getEnvInt("HTTP_TIMEOUT_SEC", 30),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 500),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		CSVOutputPath:  getEnv("CSV_OUTPUT_PATH", "./output/report.csv"),
		JSONOutputPath: getEnv("JSON_OUTPUT_PATH", "./output/report.json"),
	}

	for _, key := range []string{"CATALOG_CSV_URL_1", "CATALOG_CSV_URL_2"} {
		if url := getEnv(key, ""); url != "" {
			cfg.CatalogURLs = append(cfg.CatalogURLs, url)
		}
	}

	cfg.Thresholds = DefaultThresholds()
	for i := range cfg.Thresholds {
		t := &cfg.Thresholds[i]
		t.Min = getEnvInt64("ALERT_"+strings.ToUpper(t.Metric), t.Min)
	}

	return cfg
}

// DefaultThresholds is the fixed rule table. Env overrides in Load tune
// the values per deployment, but the set and its order stay constant
// for the duration of a run.
func DefaultThresholds() []Threshold {
	return []Threshold{
		{Metric: "views", Label: "Trailer views", Min: 2000},
		{Metric: "likes", Label: "Trailer likes", Min: 150},
		{Metric: "comments", Label: "Trailer comments", Min: 50},
		{Metric: "posts_7d", Label: "Social posts", Min: 30},
		{Metric: "eng_7d", Label: "Social engagement", Min: 150},
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// PublishEnabled reports whether GitHub publishing is configured.
func (c *Config) PublishEnabled() bool {
	return c.GitHubToken != "" && c.GitHubRepo != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.ParseInt(val, 10, 64)
		if err == nil {
			return n
		}
	}
	return fallback
}
