package configs

import (
	"log"
	"os"
	"path/filepath"

	"github.com/rimu-cli/rimu/internal/utils"
)

type UserSettings struct {
	UserConfigsPath string
	UserDataPath    string
	Username        string
}

var UserRimuSettings *UserSettings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")

	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	username, err := utils.GetUsername()
	if err != nil {
		log.Fatalf("error getting username: %s", err)
	}

	// This is independent of any keyring state, so it is ok to init here
	UserRimuSettings = &UserSettings{
		UserConfigsPath: filepath.Join(configDir, "rimu"),
		UserDataPath:    filepath.Join(dataDir, "rimu"),
		Username:        username,
	}
}
