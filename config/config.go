package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultDataFile is the text data file used when CGPA_DATA_FILE is unset
const DefaultDataFile = "cgpa_data.txt"

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// DBConfig holds the PostgreSQL connection settings
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the settings as a lib/pq connection string
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type Config struct {
	DataFile   string
	Store      string
	DB         DBConfig
	LogDir     string
	LogLevel   string
	ExportFile string
}

// LoadDotEnv loads the given .env files (".env" when none are given).
// A missing file is not an error.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("error loading %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the configuration from the environment
func Load() (Config, error) {
	cfg := Config{
		DataFile: getEnv("CGPA_DATA_FILE", DefaultDataFile),
		Store:    strings.ToLower(getEnv("CGPA_STORE", StoreFile)),
		DB: DBConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		LogDir:     getEnv("CGPA_LOG_DIR", "logs"),
		LogLevel:   strings.ToLower(getEnv("CGPA_LOG_LEVEL", "info")),
		ExportFile: getEnv("CGPA_EXPORT_FILE", "transcript.xlsx"),
	}

	switch cfg.Store {
	case StoreFile:
	case StorePostgres:
		if cfg.DB.Host == "" || cfg.DB.Name == "" {
			return cfg, fmt.Errorf("CGPA_STORE=postgres requires DB_HOST and DB_NAME")
		}
	default:
		return cfg, fmt.Errorf("unknown CGPA_STORE %q (want %q or %q)", cfg.Store, StoreFile, StorePostgres)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return cfg, fmt.Errorf("unknown CGPA_LOG_LEVEL %q", cfg.LogLevel)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
