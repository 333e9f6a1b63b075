package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load(configFile string) (*Config, error) {
	viper.Reset()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(configFile)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func bindEnvVariables() {
	viper.BindEnv("endpoint.host", "ENDPOINT_HOST")
	viper.BindEnv("endpoint.write_key", "ENDPOINT_WRITE_KEY")
	viper.BindEnv("endpoint.source_key", "ENDPOINT_SOURCE_KEY")
	viper.BindEnv("endpoint.settings_base_url", "ENDPOINT_SETTINGS_BASE_URL")
	viper.BindEnv("endpoint.connect_timeout_seconds", "ENDPOINT_CONNECT_TIMEOUT_SECONDS")
	viper.BindEnv("endpoint.read_timeout_seconds", "ENDPOINT_READ_TIMEOUT_SECONDS")
	viper.BindEnv("endpoint.gzip", "ENDPOINT_GZIP")

	viper.BindEnv("session.store_path", "SESSION_STORE_PATH")
	viper.BindEnv("session.app_name", "SESSION_APP_NAME")
	viper.BindEnv("session.idle_timeout_seconds", "SESSION_IDLE_TIMEOUT_SECONDS")

	viper.BindEnv("logging.level", "LOGGING_LEVEL")

	viper.BindEnv("circuit_breaker.enabled", "CIRCUIT_BREAKER_ENABLED")

	viper.BindEnv("server.port", "SERVER_PORT")
}
