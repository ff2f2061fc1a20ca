package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/friendsofgo/errors"
	"github.com/joho/godotenv"
)

// LoadSettings reads an optional env file and then parses Settings from the
// environment. A missing env file is not an error; a malformed one is.
func LoadSettings(envFile string) (Settings, error) {
	var settings Settings
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return settings, errors.Wrapf(err, "failed to load env file %q", envFile)
		}
	}
	if err := env.Parse(&settings); err != nil {
		return settings, errors.Wrap(err, "failed to parse settings from environment")
	}
	return settings, nil
}
