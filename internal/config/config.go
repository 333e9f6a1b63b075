package config

import (
	"time"

	"primedata/internal/constants"
)

type Config struct {
	Endpoint       EndpointConfig       `mapstructure:"endpoint"`
	Session        SessionConfig        `mapstructure:"session"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	Dispatcher     DispatcherConfig     `mapstructure:"dispatcher"`
	Server         ServerConfig         `mapstructure:"server"`
}

type EndpointConfig struct {
	Host                  string `mapstructure:"host"`
	WriteKey              string `mapstructure:"write_key"`
	SourceKey             string `mapstructure:"source_key"`
	SettingsBaseURL       string `mapstructure:"settings_base_url"`
	ConnectTimeoutSeconds int    `mapstructure:"connect_timeout_seconds"`
	ReadTimeoutSeconds    int    `mapstructure:"read_timeout_seconds"`
	Gzip                  bool   `mapstructure:"gzip"`
}

func (c EndpointConfig) ConnectTimeout() time.Duration {
	if c.ConnectTimeoutSeconds <= 0 {
		return constants.DefaultConnectTimeout
	}
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

func (c EndpointConfig) ReadTimeout() time.Duration {
	if c.ReadTimeoutSeconds <= 0 {
		return constants.DefaultReadTimeout
	}
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

type SessionConfig struct {
	StorePath          string                 `mapstructure:"store_path"`
	AppName            string                 `mapstructure:"app_name"`
	IdleTimeoutSeconds int                    `mapstructure:"idle_timeout_seconds"`
	Context            map[string]interface{} `mapstructure:"context"`
}

func (c SessionConfig) IdleTimeout() time.Duration {
	if c.IdleTimeoutSeconds <= 0 {
		return constants.DefaultSessionIdleTimeout
	}
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type CircuitBreakerConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	MaxRequests     uint32 `mapstructure:"max_requests"`
	IntervalSeconds int    `mapstructure:"interval_seconds"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
}

type DispatcherConfig struct {
	RatePerSecond          float64 `mapstructure:"rate_per_second"`
	Burst                  int     `mapstructure:"burst"`
	MaxAttempts            int     `mapstructure:"max_attempts"`
	InitialIntervalSeconds int     `mapstructure:"initial_interval_seconds"`
	MaxIntervalSeconds     int     `mapstructure:"max_interval_seconds"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}
