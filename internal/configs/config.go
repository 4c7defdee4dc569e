package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	rerrors "github.com/rimu-cli/rimu/internal/errors"
)

type UserConfig struct {
	User User `toml:"user"`
	Gpg  Gpg  `toml:"gpg"`
}

type User struct {
	Email string `toml:"email"`
	UUID  string `toml:"user_uuid"`
}

type Gpg struct {
	// Binary overrides the gpg executable. Empty means PATH lookup.
	Binary string `toml:"binary"`

	// DefaultSigner is the fingerprint used for --local-user when the
	// command line does not name one.
	DefaultSigner string `toml:"default_signer"`

	// DefaultRecipient is the fingerprint used for --recipient when the
	// command line does not name one.
	DefaultRecipient string `toml:"default_recipient"`
}

// ConfigPath returns the path of the user configuration file.
func ConfigPath() string {
	return filepath.Join(UserRimuSettings.UserConfigsPath, "config.toml")
}

// LoadUserConfig loads the user configuration from the config file.
// A missing file yields an empty config, not an error.
func LoadUserConfig() (*UserConfig, error) {
	configPath := ConfigPath()

	config := &UserConfig{}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	return config, nil
}

// SaveUserConfig saves the user configuration to the config file.
func SaveUserConfig(config *UserConfig) error {
	if err := SaveTOML(ConfigPath(), config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}
	return nil
}

// EnsureUserConfig loads the user configuration, generating and
// persisting a stable user UUID on first run.
func EnsureUserConfig() (*UserConfig, error) {
	config, err := LoadUserConfig()
	if err != nil {
		return nil, err
	}

	if config.User.UUID == "" {
		config.User.UUID = uuid.New().String()
		if err := SaveUserConfig(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// Set updates a single configuration key by its dotted name and saves.
func (c *UserConfig) Set(key, value string) error {
	switch strings.ToLower(key) {
	case "user.email":
		c.User.Email = value
	case "gpg.binary":
		c.Gpg.Binary = value
	case "gpg.default_signer":
		c.Gpg.DefaultSigner = strings.ToUpper(strings.ReplaceAll(value, " ", ""))
	case "gpg.default_recipient":
		c.Gpg.DefaultRecipient = strings.ToUpper(strings.ReplaceAll(value, " ", ""))
	default:
		return fmt.Errorf("%w: unknown key %q", rerrors.ErrInvalidConfig, key)
	}
	return SaveUserConfig(c)
}
