package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Google struct {
		ClientID       string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
		AllowedDomains string `yaml:"allowed_domains" env:"USV_EMAIL_DOMAINS"`
	} `yaml:"google"`

	SendGrid struct {
		APIKey    string `yaml:"api_key" env:"SENDGRID_API_KEY"`
		FromEmail string `yaml:"from_email" env:"SENDGRID_FROM_EMAIL"`
		FromName  string `yaml:"from_name" env:"SENDGRID_FROM_NAME"`
	} `yaml:"sendgrid"`

	Schedule struct {
		BlockOnConflict bool `yaml:"block_on_conflict" env:"SCHEDULE_BLOCK_ON_CONFLICT"`
	} `yaml:"schedule"`

	Sync struct {
		CollectorURL  string `yaml:"collector_url" env:"SYNC_COLLECTOR_URL"`
		Timeout       string `yaml:"timeout" env:"SYNC_TIMEOUT"`
		FixtureDelay  string `yaml:"fixture_delay" env:"SYNC_FIXTURE_DELAY"`
		FixtureGroup  string `yaml:"fixture_group" env:"SYNC_FIXTURE_GROUP"`
		TemplatePath  string `yaml:"template_path" env:"SYNC_TEMPLATE_PATH"`
		AdminPassword string `yaml:"admin_password" env:"SYNC_ADMIN_PASSWORD"`
	} `yaml:"sync"`

	Collector struct {
		Port             string `yaml:"port" env:"COLLECTOR_PORT"`
		APIBaseURL       string `yaml:"api_base_url" env:"FASTAPI_BASE_URL"`
		RequestDelay     string `yaml:"request_delay" env:"COLLECTOR_REQUEST_DELAY"`
		FacultyShortName string `yaml:"faculty_short_name" env:"COLLECTOR_FACULTY_SHORT_NAME"`
		TargetFaculty    string `yaml:"target_faculty" env:"COLLECTOR_TARGET_FACULTY"`
		FacultiesURL     string `yaml:"faculties_url" env:"COLLECTOR_FACULTIES_URL"`
		GroupsURL        string `yaml:"groups_url" env:"COLLECTOR_GROUPS_URL"`
		RoomsURL         string `yaml:"rooms_url" env:"COLLECTOR_ROOMS_URL"`
		StaffURL         string `yaml:"staff_url" env:"COLLECTOR_STAFF_URL"`
		TimetableURL     string `yaml:"timetable_url" env:"COLLECTOR_TIMETABLE_URL"`
	} `yaml:"collector"`

	Admin struct {
		Email    string `yaml:"email" env:"ADMIN_EMAIL"`
		Password string `yaml:"password" env:"ADMIN_PASSWORD"`
	} `yaml:"admin"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env values never override variables already present in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8000"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "twaaos"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "30m"
	config.JWT.Issuer = "twaaos"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Google.AllowedDomains = "student.usv.ro,usv.ro,staff.usv.ro,fim.usv.ro,fiesc.usv.ro"

	config.SendGrid.FromName = "TWAAOS"

	config.Sync.CollectorURL = "http://collector:5000"
	config.Sync.Timeout = "5m"
	config.Sync.FixtureDelay = "500ms"
	config.Sync.TemplatePath = "templates/template.xlsx"
	config.Sync.AdminPassword = "admin"

	config.Collector.Port = "5000"
	config.Collector.APIBaseURL = "http://localhost:8000"
	config.Collector.RequestDelay = "100ms"
	config.Collector.FacultyShortName = "FIESC"
	config.Collector.TargetFaculty = "Facultatea de Inginerie Electrică şi Ştiinţa Calculatoarelor"
	config.Collector.FacultiesURL = "https://orar.usv.ro/orar/vizualizare/data/facultati.php?json"
	config.Collector.GroupsURL = "https://orar.usv.ro/orar/vizualizare/data/subgrupe.php?json"
	config.Collector.RoomsURL = "https://orar.usv.ro/orar/vizualizare/data/sali.php?json"
	config.Collector.StaffURL = "https://orar.usv.ro/orar/vizualizare/data/cadre.php?json"
	config.Collector.TimetableURL = "https://orar.usv.ro/orar/vizualizare/data/orarSPG.php?ID=%s&mod=grupa&json"

	config.Admin.Email = "admin@usv.ro"
	config.Admin.Password = "admin"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return applyEnvOverrides(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"JWT access token expiration": config.JWT.AccessTokenExpiration,
		"database conn max lifetime":  config.Database.ConnMaxLifetime,
		"sync timeout":                config.Sync.Timeout,
		"sync fixture delay":          config.Sync.FixtureDelay,
		"collector request delay":     config.Collector.RequestDelay,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GoogleAllowedDomains returns the configured institutional email domains
func (c *Config) GoogleAllowedDomains() []string {
	var domains []string
	for _, d := range strings.Split(c.Google.AllowedDomains, ",") {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
