package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
	DriverGCS   = "gcs"

	defaultBind      = ":8080"
	defaultMaxMemory = 10 << 20
	defaultHost      = "http://localhost:8080"
	defaultLocalDir  = "data"
)

// Config describes the application level configuration loaded from json or yaml.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Client  ClientConfig  `json:"client" yaml:"client"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
}

// ServerConfig holds the options of the storage service.
type ServerConfig struct {
	Bind      string `json:"bind" yaml:"bind"`
	MaxMemory int64  `json:"max_memory" yaml:"max_memory"`
}

// ClientConfig holds the options used by the upload/list/download commands.
type ClientConfig struct {
	Host string `json:"host" yaml:"host"`
	// Timeout in seconds, 0 leaves requests unbounded.
	Timeout int `json:"timeout" yaml:"timeout"`
}

// StorageConfig selects and configures the backend the server persists to.
type StorageConfig struct {
	Driver string      `json:"driver" yaml:"driver"`
	Local  LocalConfig `json:"local" yaml:"local"`
	S3     S3Config    `json:"s3" yaml:"s3"`
	GCS    GCSConfig   `json:"gcs" yaml:"gcs"`
}

// LocalConfig points the local backend at a directory.
type LocalConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

// S3Config holds the options for accessing the object store.
type S3Config struct {
	Host            string `json:"host" yaml:"host"`
	Bucket          string `json:"bucket" yaml:"bucket"`
	Prefix          string `json:"prefix" yaml:"prefix"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token" yaml:"session_token"`
	ForcePathStyle  bool   `json:"force_path_style" yaml:"force_path_style"`
}

// GCSConfig holds the bucket and prefix used on Google Cloud Storage.
type GCSConfig struct {
	Bucket          string `json:"bucket" yaml:"bucket"`
	Prefix          string `json:"prefix" yaml:"prefix"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

var globalConfig *Config

// SetGlobal assigns the configuration shared by the commands.
func SetGlobal(c *Config) {
	globalConfig = c
}

// Global returns the configuration set by SetGlobal, or defaults.
func Global() *Config {
	if globalConfig == nil {
		return Default()
	}
	return globalConfig
}

// Default returns a configuration that serves ./data on :8080.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// ClientTimeout converts the configured timeout to a duration.
func (c *Config) ClientTimeout() time.Duration {
	return time.Duration(c.Client.Timeout) * time.Second
}

// LoadFirst tries to load configuration from the given paths, returning the
// first successfully decoded configuration. If none of the paths contain a
// readable config, an error wrapping os.ErrNotExist is returned.
func LoadFirst(paths ...string) (*Config, error) {
	var lastErr error
	for _, path := range paths {
		if path == "" {
			continue
		}
		cfg, err := Load(path)
		if errors.Is(err, os.ErrNotExist) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("config not found in paths %v: %w", paths, os.ErrNotExist)
	}
	return nil, lastErr
}

// Load reads configuration from a single file path. Files ending in .yaml or
// .yml are decoded as yaml, anything else as json.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	if c.Server.MaxMemory <= 0 {
		c.Server.MaxMemory = defaultMaxMemory
	}
	if c.Client.Host == "" {
		c.Client.Host = defaultHost
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverLocal
	}
	if c.Storage.Local.Dir == "" {
		c.Storage.Local.Dir = defaultLocalDir
	}
}

// Validate performs basic validation of the configuration.
func (c *Config) Validate() error {
	if c.Client.Timeout < 0 {
		return errors.New("config.client.timeout must not be negative")
	}
	switch c.Storage.Driver {
	case DriverLocal:
		if c.Storage.Local.Dir == "" {
			return errors.New("config.storage.local.dir must be set")
		}
	case DriverS3:
		if c.Storage.S3.Host == "" {
			return errors.New("config.storage.s3.host must be set")
		}
		if c.Storage.S3.Bucket == "" {
			return errors.New("config.storage.s3.bucket must be set")
		}
	case DriverGCS:
		if c.Storage.GCS.Bucket == "" {
			return errors.New("config.storage.gcs.bucket must be set")
		}
	default:
		return fmt.Errorf("config.storage.driver %q is not supported", c.Storage.Driver)
	}
	return nil
}
