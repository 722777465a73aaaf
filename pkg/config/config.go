package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfigPath names the variable pointing at an optional YAML config file.
const EnvConfigPath = "CONFIG_PATH"

// load fills cfg from the file named by CONFIG_PATH when set, then from the
// environment. Environment values win over file values.
func load(cfg any) error {
	path := strings.TrimSpace(os.Getenv(EnvConfigPath))
	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return fmt.Errorf("read env config: %w", err)
		}
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	return nil
}

func mask(value string) string {
	if value == "" {
		return "<unset>"
	}
	return "***"
}
