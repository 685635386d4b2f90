package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the verification service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Search    SearchConfig    `mapstructure:"search"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server and auth settings
type ServerConfig struct {
	Address   string `mapstructure:"address"`
	JWTSecret string `mapstructure:"jwt_secret"` // empty disables websocket auth
}

// LLMConfig configures the text-generation provider
type LLMConfig struct {
	Type            string        `mapstructure:"type"` // openai
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	CompletionModel string        `mapstructure:"completion_model"`
	SummaryModel    string        `mapstructure:"summary_model"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// SearchConfig configures the web-search provider
type SearchConfig struct {
	Provider       string   `mapstructure:"provider"` // serper, brave
	APIKey         string   `mapstructure:"api_key"`
	MaxResults     int      `mapstructure:"max_results"`
	TrustedDomains []string `mapstructure:"trusted_domains"`
}

// StorageConfig selects and configures the session store
type StorageConfig struct {
	Backend    string        `mapstructure:"backend"` // redis, inmemory
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	Redis      RedisConfig   `mapstructure:"redis"`
}

// RedisConfig contains redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Validate() error {
	if r.Host == "" {
		return errors.New("storage.redis.host is required")
	}
	if r.Port == "" {
		return errors.New("storage.redis.port is required")
	}
	return nil
}

// PipelineConfig bounds external call volume during a run
type PipelineConfig struct {
	MaxResearchQuestions int           `mapstructure:"max_research_questions"`
	ResearchPause        time.Duration `mapstructure:"research_pause"`
	SummaryChunkTokens   int           `mapstructure:"summary_chunk_tokens"`
}

// TelemetryConfig contains monitoring settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func (s StorageConfig) Validate() error {
	switch s.Backend {
	case "redis":
		return s.Redis.Validate()
	case "inmemory", "":
		return nil
	}
	return fmt.Errorf("unsupported storage backend: %s", s.Backend)
}

// DefaultTrustedDomains is the allowlist applied to research and follow-up
// searches when search.trusted_domains is not configured.
var DefaultTrustedDomains = []string{
	"cia.gov", "fbi.gov", "state.gov", "congress.gov", "uscis.gov",
	"nasa.gov", "nih.gov", "cdc.gov", "epa.gov", "treasury.gov",
	"justice.gov", "defense.gov", "energy.gov", "commerce.gov",
	"labor.gov", "transportation.gov", "hud.gov", "education.gov", "va.gov",
}

func LoadConfig(path string) *Config {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("json")
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("server.address", ":10002")
	viper.SetDefault("llm.type", "openai")
	viper.SetDefault("llm.completion_model", "gpt-4o")
	viper.SetDefault("llm.summary_model", "gpt-4o")
	viper.SetDefault("llm.timeout", "90s")
	viper.SetDefault("search.provider", "serper")
	viper.SetDefault("search.max_results", 5)
	viper.SetDefault("search.trusted_domains", DefaultTrustedDomains)
	viper.SetDefault("storage.backend", "redis")
	viper.SetDefault("storage.session_ttl", "24h")
	viper.SetDefault("storage.redis.host", "localhost")
	viper.SetDefault("storage.redis.port", "6379")
	viper.SetDefault("storage.redis.timeout", "5s")
	viper.SetDefault("pipeline.max_research_questions", 25)
	viper.SetDefault("pipeline.research_pause", "1s")
	viper.SetDefault("pipeline.summary_chunk_tokens", 8000)
	viper.SetDefault("telemetry.enabled", true)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("VERITAS")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv() // read in environment variables that match (VERITAS_*)

	if err := viper.ReadInConfig(); err != nil {
		// Running from env alone is fine; only a malformed file is fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	if err := config.Storage.Validate(); err != nil {
		panic(err)
	}
	return &config
}
