package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`

	Auth struct {
		APIKey string `yaml:"apiKey"`
	} `yaml:"auth"`

	OpenAI struct {
		APIKey    string `yaml:"apiKey"`
		Model     string `yaml:"model"`
		MaxTokens int    `yaml:"maxTokens"`
	} `yaml:"openai"`

	Batch struct {
		MaxConcurrency int `yaml:"maxConcurrency"`
	} `yaml:"batch"`

	Tasks struct {
		Retention string `yaml:"retention"` // e.g. "1h"; empty keeps tasks forever
	} `yaml:"tasks"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres | empty to disable
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`
}

// Load reads the config.yaml file and applies defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if cfg.Auth.APIKey == "" {
		return nil, fmt.Errorf("auth.apiKey is required")
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o"
	}
	if c.OpenAI.MaxTokens == 0 {
		c.OpenAI.MaxTokens = 4096
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
}

// TaskRetention parses tasks.retention; zero means keep records for the
// process lifetime.
func (c *Config) TaskRetention() time.Duration {
	if c.Tasks.Retention == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Tasks.Retention)
	if err != nil {
		return 0
	}
	return d
}

// MySQLDSN helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
