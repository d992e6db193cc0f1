package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Token names used by the config file and by token stores
const (
	TokenVK     = "vk_token"
	TokenYandex = "ya_token"
)

// Config holds all configuration options for the backup tool
type Config struct {
	// Access tokens
	VKToken     string `yaml:"vk_token" json:"vk_token" env:"VKBACKUP_VK_TOKEN" validate:"required"`
	YandexToken string `yaml:"ya_token" json:"ya_token" env:"VKBACKUP_YA_TOKEN" validate:"required"`

	// VK API settings
	VK VKConfig `yaml:"vk" json:"vk"`

	// Yandex.Disk settings
	Yandex YandexConfig `yaml:"yandex" json:"yandex"`

	// Local backup settings
	Local LocalConfig `yaml:"local" json:"local"`

	// Manifest output
	Manifest ManifestConfig `yaml:"manifest" json:"manifest"`

	// Optional S3-compatible destination
	S3 S3Config `yaml:"s3" json:"s3"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// IANA time zone used for the dates in file names; empty means local time
	TimeZone string `yaml:"time_zone" json:"time_zone" env:"VKBACKUP_TIME_ZONE" validate:"omitempty,timezone"`
}

// VKConfig holds VK API configuration
type VKConfig struct {
	APIURL     string `yaml:"api_url" json:"api_url" env:"VKBACKUP_VK_API_URL" validate:"required,url"`
	APIVersion string `yaml:"api_version" json:"api_version" env:"VKBACKUP_VK_API_VERSION" validate:"required"`
	TopCount   int    `yaml:"top_count" json:"top_count" env:"VKBACKUP_TOP_COUNT" validate:"min=1,max=1000"`
	PageSize   int    `yaml:"page_size" json:"page_size" env:"VKBACKUP_PAGE_SIZE" validate:"min=1,max=1000"`
}

// YandexConfig holds Yandex.Disk configuration
type YandexConfig struct {
	APIURL     string `yaml:"api_url" json:"api_url" env:"VKBACKUP_YA_API_URL" validate:"required,url"`
	BaseFolder string `yaml:"base_folder" json:"base_folder" env:"VKBACKUP_YA_BASE_FOLDER" validate:"required"`
}

// LocalConfig holds local backup configuration
type LocalConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory" env:"VKBACKUP_LOCAL_DIR" validate:"required"`
}

// ManifestConfig holds manifest output configuration
type ManifestConfig struct {
	Directory string `yaml:"directory" json:"directory" env:"VKBACKUP_MANIFEST_DIR" validate:"required"`
}

// S3Config holds the optional S3-compatible destination. It is enabled
// when Endpoint is set.
type S3Config struct {
	Endpoint  string `yaml:"endpoint" json:"endpoint" env:"VKBACKUP_S3_ENDPOINT"`
	AccessKey string `yaml:"access_key" json:"access_key" env:"VKBACKUP_S3_ACCESS_KEY" validate:"required_with=Endpoint"`
	SecretKey string `yaml:"secret_key" json:"secret_key" env:"VKBACKUP_S3_SECRET_KEY" validate:"required_with=Endpoint"`
	Bucket    string `yaml:"bucket" json:"bucket" env:"VKBACKUP_S3_BUCKET" validate:"required_with=Endpoint"`
	UseSSL    bool   `yaml:"use_ssl" json:"use_ssl" env:"VKBACKUP_S3_USE_SSL"`
}

// Enabled reports whether an S3 destination is configured
func (s S3Config) Enabled() bool {
	return s.Endpoint != ""
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level" env:"VKBACKUP_LOG_LEVEL" validate:"oneof=debug info warn error"`
	File    string `yaml:"file" json:"file" env:"VKBACKUP_LOG_FILE"`
	Console bool   `yaml:"console" json:"console" env:"VKBACKUP_LOG_CONSOLE"`
}

// TokenSource provides tokens that were not found in the file or environment
type TokenSource interface {
	Token(name string) (string, error)
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		VK: VKConfig{
			APIURL:     "https://api.vk.com/method",
			APIVersion: "5.131",
			TopCount:   5,
			PageSize:   1000,
		},
		Yandex: YandexConfig{
			APIURL:     "https://cloud-api.yandex.net/v1/disk",
			BaseFolder: "vk_photos_backup",
		},
		Local: LocalConfig{
			BaseDirectory: "local_backup",
		},
		Manifest: ManifestConfig{
			Directory: ".",
		},
		S3: S3Config{
			Bucket: "vk-photos-backup",
			UseSSL: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "vk_backup.log",
		},
	}
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnv overrides fields whose environment variables are set
func (c *Config) LoadFromEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// LoadFromTokenSource fills tokens that are still empty from src
func (c *Config) LoadFromTokenSource(src TokenSource) {
	if src == nil {
		return
	}
	if c.VKToken == "" {
		if token, err := src.Token(TokenVK); err == nil {
			c.VKToken = token
		}
	}
	if c.YandexToken == "" {
		if token, err := src.Token(TokenYandex); err == nil {
			c.YandexToken = token
		}
	}
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		"config.yaml",
		"config.yml",
		filepath.Join(home, ".config", "vkbackup", "config.yaml"),
		filepath.Join(home, ".vkbackup.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(yamlName)

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, describeFieldError(fe))
	}
	return errors.Join(errs...)
}

func describeFieldError(fe validator.FieldError) error {
	// Drop the root struct name: "Config.vk.top_count" -> "vk.top_count"
	name := fe.Namespace()
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}

	switch fe.Tag() {
	case "required", "required_with":
		return fmt.Errorf("%s is required", name)
	case "oneof":
		return fmt.Errorf("%s must be one of [%s]", name, fe.Param())
	case "min":
		return fmt.Errorf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Errorf("%s must be at most %s", name, fe.Param())
	case "url":
		return fmt.Errorf("%s must be a valid URL", name)
	case "timezone":
		return fmt.Errorf("%s must be a valid IANA time zone", name)
	default:
		return fmt.Errorf("%s is invalid (%s)", name, fe.Tag())
	}
}

func yamlName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

// Location returns the configured time zone, defaulting to local time
func (c *Config) Location() *time.Location {
	if c.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// MaskToken hides all but the first and last 4 characters of a token
func MaskToken(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: token store (only for empty tokens) > environment
// variables > .env file > config file > defaults
func Load(configPath string, tokens TokenSource) (*Config, error) {
	// .env files never override variables that are already set
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".vkbackup.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.LoadFromTokenSource(tokens)

	config.VKToken = strings.TrimSpace(config.VKToken)
	config.YandexToken = strings.TrimSpace(config.YandexToken)
	config.Logging.Level = strings.ToLower(config.Logging.Level)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
