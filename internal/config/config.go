package config

import "time"

// Config holds all application configuration.
type Config struct {
	Store  StoreConfig  `koanf:"store"`
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
	LLM    LLMConfig    `koanf:"llm"`
	Import ImportConfig `koanf:"import"`
}

// StoreConfig locates the marked-card database.
type StoreConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Addr           string        `koanf:"addr" validate:"required,hostname_port"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"gt=0"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

// LLMConfig configures the completion service used for card generation.
// Generation is disabled when APIKey is empty.
type LLMConfig struct {
	APIKey      string  `koanf:"api_key"`
	Model       string  `koanf:"model" validate:"required"`
	Temperature float32 `koanf:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int32   `koanf:"max_tokens" validate:"gt=0"`
}

// Enabled reports whether an API key is configured.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

type ImportConfig struct {
	ReposDir string `koanf:"repos_dir" validate:"required"`
}
