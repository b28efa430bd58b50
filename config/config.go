package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Settings holds everything the service needs at startup. Values come from
// defaults, then an optional YAML file, then environment variables, in that
// order of precedence.
type Settings struct {
	AppName    string `yaml:"appName"`
	ListenAddr string `yaml:"listenAddr"`

	DatabasePath string `yaml:"databasePath"`

	ModelProvider   string `yaml:"modelProvider"`
	ModelName       string `yaml:"modelName"`
	OpenAIAPIKey    string `yaml:"-"`
	AnthropicAPIKey string `yaml:"-"`

	MaxTokens    int64         `yaml:"maxTokens"`
	Temperature  float64       `yaml:"temperature"`
	HistoryLimit int           `yaml:"historyLimit"`
	TurnTimeout  time.Duration `yaml:"turnTimeout"`

	CORSOrigins []string `yaml:"corsOrigins"`
}

func Default() *Settings {
	return &Settings{
		AppName:      "companion",
		ListenAddr:   ":8000",
		DatabasePath: "data/companion.db",

		ModelProvider: "openai",
		ModelName:     "gpt-4o-mini",

		MaxTokens:    2000,
		Temperature:  0.7,
		HistoryLimit: 5,
		TurnTimeout:  60 * time.Second,

		CORSOrigins: []string{"http://localhost:5173"},
	}
}

// Load builds the settings. A missing config file is not an error; a present
// but unreadable one is.
func Load(fs afero.Fs, path string) (*Settings, error) {
	_ = godotenv.Load()

	settings := Default()

	if path != "" {
		exists, err := afero.Exists(fs, path)
		if err != nil {
			return nil, fmt.Errorf("check config file: %w", err)
		}
		if exists {
			content, err := afero.ReadFile(fs, path)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := yaml.Unmarshal(content, settings); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		}
	}

	applyEnv(settings)

	if settings.HistoryLimit < 0 {
		return nil, fmt.Errorf("history limit must not be negative")
	}
	return settings, nil
}

func applyEnv(settings *Settings) {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		settings.ListenAddr = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		settings.DatabasePath = v
	}
	if v := os.Getenv("MODEL_PROVIDER"); v != "" {
		settings.ModelProvider = strings.ToLower(v)
	}
	if v := os.Getenv("MODEL_NAME"); v != "" {
		settings.ModelName = v
	}
	settings.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	settings.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")

	if v := os.Getenv("AI_MAX_TOKENS"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			settings.MaxTokens = parsed
		}
	}
	if v := os.Getenv("AI_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			settings.Temperature = parsed
		}
	}
	if v := os.Getenv("CHAT_HISTORY_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			settings.HistoryLimit = parsed
		}
	}
	if v := os.Getenv("CHAT_TURN_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			settings.TurnTimeout = parsed
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := []string{}
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		settings.CORSOrigins = origins
	}
}

// APIKey returns the credential for the configured provider, or "" when chat
// cannot be enabled.
func (s *Settings) APIKey() string {
	switch s.ModelProvider {
	case "anthropic":
		return s.AnthropicAPIKey
	default:
		return s.OpenAIAPIKey
	}
}
