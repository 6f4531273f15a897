package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/spire/pkg/adapters/process"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SPIRE_REASONER_MODEL.
const EnvPrefix = "SPIRE"

// Config holds the agent configuration.
type Config struct {
	Display       int           `mapstructure:"display"`
	TickInterval  time.Duration `mapstructure:"tick_interval"`
	PromptsFile   string        `mapstructure:"prompts_file"`
	KnowledgeFile string        `mapstructure:"knowledge_file"`

	Log        LogConfig        `mapstructure:"log"`
	Reasoner   ReasonerConfig   `mapstructure:"reasoner"`
	Recognizer RecognizerConfig `mapstructure:"recognizer"`
	Memory     process.Config   `mapstructure:"memory"`
	Scratch    ScratchConfig    `mapstructure:"scratch"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Chat       ChatConfig       `mapstructure:"chat"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Debug      DebugConfig      `mapstructure:"debug"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// Dir receives one log file per run. Empty logs to stderr only.
	Dir string `mapstructure:"dir"`
}

// ReasonerConfig selects and tunes the reasoning service.
type ReasonerConfig struct {
	// Provider is "openai" or "mock".
	Provider    string        `mapstructure:"provider"`
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	APIKeyEnv   string        `mapstructure:"api_key_env"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Key returns the explicit API key, or the value of the APIKeyEnv variable.
func (r ReasonerConfig) Key() string {
	if r.APIKey != "" {
		return r.APIKey
	}
	if r.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(r.APIKeyEnv)
}

type RecognizerConfig struct {
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ScratchConfig struct {
	// Backend is "memory", "file" or "redis".
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	// Dir holds the entries of the file backend.
	Dir string `mapstructure:"dir"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type ChatConfig struct {
	// Backend is "log" or "redis".
	Backend string `mapstructure:"backend"`
	Channel string `mapstructure:"channel"`
}

type HTTPConfig struct {
	// Listen is the status server address. Empty disables it.
	Listen string `mapstructure:"listen"`
}

type DebugConfig struct {
	// CaptureDir receives every perception crop as PNG. Empty disables it.
	CaptureDir string `mapstructure:"capture_dir"`
}

// flagKeys maps CLI flag names to configuration keys.
var flagKeys = map[string]string{
	"display":   "display",
	"log-level": "log.level",
	"listen":    "http.listen",
	"reasoner":  "reasoner.provider",
	"interval":  "tick_interval",
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("display", 1)
	v.SetDefault("tick_interval", 2*time.Second)
	v.SetDefault("prompts_file", "prompt.json")
	v.SetDefault("knowledge_file", "game_knowledge.json")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "logs")

	v.SetDefault("reasoner.provider", "openai")
	v.SetDefault("reasoner.base_url", "https://api.chatanywhere.tech/v1")
	v.SetDefault("reasoner.api_key", "")
	v.SetDefault("reasoner.api_key_env", "GEMINI_API_KEY")
	v.SetDefault("reasoner.model", "gpt-4o-mini")
	v.SetDefault("reasoner.max_tokens", 150)
	v.SetDefault("reasoner.temperature", 0.7)
	v.SetDefault("reasoner.timeout", 30*time.Second)

	v.SetDefault("recognizer.language", "chi_sim")
	v.SetDefault("recognizer.timeout", 10*time.Second)

	v.SetDefault("memory.command", "CE.exe")
	v.SetDefault("memory.args", []string{})
	v.SetDefault("memory.dir", "")
	v.SetDefault("memory.timeout", process.DefaultTimeout)

	v.SetDefault("scratch.backend", "memory")
	v.SetDefault("scratch.ttl", time.Duration(0))
	v.SetDefault("scratch.dir", filepath.Join(".spire", "scratch"))

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "spire:")

	v.SetDefault("chat.backend", "log")
	v.SetDefault("chat.channel", "spire:chat")

	v.SetDefault("http.listen", "")
	v.SetDefault("debug.capture_dir", "")
}

// Load reads defaults, then the config file, then SPIRE_* environment variables, then the
// flags that were set explicitly. An empty path searches spire.yaml in the working directory
// and $HOME/.config/spire; a missing file is not an error, an explicit path that cannot be
// read is.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("spire")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "spire"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, c.Validate()
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	var errs []error
	if c.Display < 1 {
		errs = append(errs, fmt.Errorf("display must be >= 1, got %d", c.Display))
	}
	if c.TickInterval < 0 {
		errs = append(errs, fmt.Errorf("tick_interval must not be negative"))
	}
	switch c.Reasoner.Provider {
	case "openai", "mock":
	default:
		errs = append(errs, fmt.Errorf("unknown reasoner provider %q", c.Reasoner.Provider))
	}
	switch c.Scratch.Backend {
	case "memory", "file", "redis":
	default:
		errs = append(errs, fmt.Errorf("unknown scratch backend %q", c.Scratch.Backend))
	}
	switch c.Chat.Backend {
	case "log", "redis":
	default:
		errs = append(errs, fmt.Errorf("unknown chat backend %q", c.Chat.Backend))
	}
	return errors.Join(errs...)
}
