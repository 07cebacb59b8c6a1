package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Auth    AuthConfig    `yaml:"auth"`
	Users   []User        `yaml:"users"`
	Store   StoreConfig   `yaml:"store"`
	Upload  UploadConfig  `yaml:"upload"`
	Storage StorageConfig `yaml:"storage"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type User struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
}

type StoreConfig struct {
	// FetchLatencyMs simulates backend latency on reads. Zero disables it.
	FetchLatencyMs int `yaml:"fetch_latency_ms"`
}

type UploadConfig struct {
	MaxFileSize       int64    `yaml:"max_file_size"` // bytes
	MaxFilesPerUpload int      `yaml:"max_files_per_upload"`
	AllowedFileTypes  []string `yaml:"allowed_file_types"` // extensions, each beginning with "."
	FailureRate       float64  `yaml:"failure_rate"`       // simulated transfer failure probability [0,1]
	StepDelayMinMs    int      `yaml:"step_delay_min_ms"`
	StepDelayMaxMs    int      `yaml:"step_delay_max_ms"`
}

type StorageConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Unmarshal over pre-populated defaults so a key explicitly set to
	// zero (failure_rate: 0) is distinguishable from an absent key.
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Log:    LogConfig{Level: "info"},
		Auth:   AuthConfig{TokenExpireHours: 24},
		Upload: UploadConfig{
			MaxFileSize:       10 * 1024 * 1024, // 10MB
			MaxFilesPerUpload: 10,
			AllowedFileTypes:  []string{".pdf", ".doc", ".docx", ".txt"},
			FailureRate:       0.2,
			StepDelayMinMs:    100,
			StepDelayMaxMs:    200,
		},
	}
}

func (c *Config) validate() error {
	if c.Upload.FailureRate < 0 || c.Upload.FailureRate > 1 {
		return fmt.Errorf("upload.failure_rate must be in [0,1], got %v", c.Upload.FailureRate)
	}
	if c.Upload.StepDelayMaxMs < c.Upload.StepDelayMinMs {
		return fmt.Errorf("upload.step_delay_max_ms must be >= step_delay_min_ms")
	}
	for _, ext := range c.Upload.AllowedFileTypes {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("upload.allowed_file_types entries must begin with '.', got %q", ext)
		}
	}
	return nil
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}
