package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MapsAPIKey string

	RateLimitMs int
	MaxRetries  int

	OutputDir      string
	LegacyFilePath string
	LogFilePath    string
	CrawlConfig    string
	ChromeBin      string
}

// SearchSettings are the query parameters substituted into a target
// website's URL template, plus the pagination policy.
type SearchSettings struct {
	Keyword  string `yaml:"keyword"`
	Location string `yaml:"location"`
	Radius   int    `yaml:"radius"`
	Fromage  int    `yaml:"fromage"`
	Sort     string `yaml:"sort"`
	Start    int    `yaml:"start"`
	Step     int    `yaml:"step"`
	MaxPages int    `yaml:"max_pages"`
}

// TargetWebsite describes one crawl target. TemplateURL carries six
// positional slots: keyword, location, radius, fromage, sort, offset.
type TargetWebsite struct {
	Name        string `yaml:"name"`
	BaseURL     string `yaml:"base_url"`
	TemplateURL string `yaml:"template_url"`
}

// CrawlConfig is the parsed YAML crawl-settings file.
type CrawlConfig struct {
	SearchSettings []SearchSettings `yaml:"search_settings"`
	TargetWebsites []TargetWebsite  `yaml:"target_websites"`
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "geojobs"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "geojobs123"),
		PostgresDB:       getEnv("POSTGRES_DB", "geojobsearch"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MapsAPIKey: getEnv("MAPS_API_KEY", ""),

		RateLimitMs: getEnvInt("RATE_LIMIT_MS", 4000),
		MaxRetries:  getEnvInt("MAX_RETRIES", 10),

		OutputDir:      getEnv("OUTPUT_DIR", "./job_lists_json"),
		LegacyFilePath: getEnv("LEGACY_FILE_PATH", "./job_lists_json/legacy-job-listings.txt"),
		LogFilePath:    getEnv("LOG_FILE_PATH", "./web_scraper_logs.txt"),
		CrawlConfig:    getEnv("CRAWL_CONFIG", "./config.yaml"),
		ChromeBin:      getEnv("CHROME_BIN", ""),
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

// LoadCrawlConfig parses the YAML crawl-settings file at path.
func LoadCrawlConfig(path string) (*CrawlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read crawl config %q: %w", path, err)
	}

	cc := &CrawlConfig{}
	if err := yaml.Unmarshal(data, cc); err != nil {
		return nil, fmt.Errorf("config: parse crawl config %q: %w", path, err)
	}

	if len(cc.SearchSettings) == 0 {
		return nil, fmt.Errorf("config: crawl config %q has no search_settings", path)
	}
	if len(cc.TargetWebsites) == 0 {
		return nil, fmt.Errorf("config: crawl config %q has no target_websites", path)
	}

	return cc, nil
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
