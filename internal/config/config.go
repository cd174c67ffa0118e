package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/comitanigiacomo/kanso-rituals/internal/core/domain"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port       string
	Driver     string
	SQLitePath string
	SeedFile   string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	StateTable string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	RateLimit       int
	RateLimitWindow time.Duration
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[CONFIG] Ignoring non-numeric %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

// Load reads configuration from the environment, after merging an
// optional .env file found in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		Driver:     getEnv("STORAGE_DRIVER", DriverSQLite),
		SQLitePath: getEnv("SQLITE_PATH", "kanso.db"),
		SeedFile:   os.Getenv("SEED_FILE"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		StateTable: getEnv("STATE_TABLE", "kanso_state"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RateLimit:       getEnvInt("RATE_LIMIT", 300),
		RateLimitWindow: time.Minute,
	}

	switch cfg.Driver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q (use sqlite, postgres or memory)", cfg.Driver)
	}

	return cfg, nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

type seedFile struct {
	Habits []struct {
		Title        string `yaml:"title"`
		Target       int    `yaml:"target"`
		StartDate    string `yaml:"start_date"`
		SpecificDate string `yaml:"specific_date"`
	} `yaml:"habits"`
}

// LoadSeedHabits returns the starter habits used when no registry has
// been persisted yet. An empty path yields the built-in list.
func LoadSeedHabits(path string) ([]domain.Habit, error) {
	if path == "" {
		return domain.DefaultHabits(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	habits := make([]domain.Habit, 0, len(file.Habits))
	for _, s := range file.Habits {
		h, err := domain.NewHabit(s.Title, s.Target, s.SpecificDate, s.StartDate)
		if err != nil {
			log.Printf("[CONFIG] Skipping seed habit %q: %v", s.Title, err)
			continue
		}
		habits = append(habits, *h)
	}

	return habits, nil
}
