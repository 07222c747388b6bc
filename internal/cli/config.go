package cli

import (
	"errors"
	"os"

	"github.com/xxxsen/filedrop/internal/config"
)

var defaultKeyList = []string{
	"./config.json",
	"./config.yaml",
	"/etc/filedrop.json",
}

// LoadConfig loads the explicit path or the first default file found. Without
// an explicit path a missing file falls back to the built-in defaults.
func LoadConfig(explicit string) (*config.Config, error) {
	if explicit != "" {
		return config.Load(explicit)
	}
	cfg, err := config.LoadFirst(defaultKeyList...)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}
