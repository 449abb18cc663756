package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LLMProvider     string  `yaml:"llm_provider"`
	LLMModel        string  `yaml:"llm_model"`
	AnthropicAPIKey string  `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string  `yaml:"openai_api_key"`
	MaxTokens       int     `yaml:"llm_max_tokens"`
	Temperature     float64 `yaml:"llm_temperature"`

	ShortPrompt   bool `yaml:"short_prompt"`
	MaxTextLength int  `yaml:"max_text_length"`

	Tolerance float64 `yaml:"tolerance"`

	RetryCount        int     `yaml:"retry_count"`
	RetryDelaySeconds float64 `yaml:"retry_delay_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	DBPath  string `yaml:"db_path"`
	DataDir string `yaml:"data_dir"`

	CasesURL          string `yaml:"cases_url"`
	AutoFetchSchedule string `yaml:"auto_fetch_schedule"`

	APIAddr string `yaml:"api_addr"`

	SlackBotToken   string `yaml:"slack_bot_token"`
	ReportChannelID string `yaml:"report_channel_id"`

	Timezone string `yaml:"timezone"`
	Location *time.Location
}

func LoadConfig() Config {
	var cfg Config

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverrideInt(&cfg.MaxTokens, "LLM_MAX_TOKENS")
	envOverrideFloat(&cfg.Temperature, "LLM_TEMPERATURE")
	envOverrideInt(&cfg.MaxTextLength, "MAX_TEXT_LENGTH")
	envOverrideFloat(&cfg.Tolerance, "TOLERANCE")
	envOverrideInt(&cfg.RetryCount, "RETRY_COUNT")
	envOverrideFloat(&cfg.RetryDelaySeconds, "RETRY_DELAY_SECONDS")
	envOverrideFloat(&cfg.RequestsPerSecond, "REQUESTS_PER_SECOND")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.DataDir, "DATA_DIR")
	envOverride(&cfg.CasesURL, "CASES_URL")
	envOverride(&cfg.AutoFetchSchedule, "AUTO_FETCH_SCHEDULE")
	envOverride(&cfg.APIAddr, "API_ADDR")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")
	envOverride(&cfg.Timezone, "TIMEZONE")

	ApplyDefaults(&cfg)

	// Validate required fields and ranges
	switch cfg.LLMProvider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Fatalf("anthropic_api_key is required when llm_provider=anthropic")
		}
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Fatalf("openai_api_key is required when llm_provider=openai")
		}
	case "mock":
		// No key needed; used for dry runs.
	default:
		log.Fatalf("llm_provider must be 'anthropic', 'openai', or 'mock', got '%s'", cfg.LLMProvider)
	}

	if cfg.Tolerance <= 0 || cfg.Tolerance > 1 {
		log.Fatalf("invalid tolerance '%f': must be in (0, 1]", cfg.Tolerance)
	}
	if cfg.RetryCount < 1 {
		log.Fatalf("invalid retry_count '%d': must be >= 1", cfg.RetryCount)
	}
	if cfg.RequestsPerSecond <= 0 {
		log.Fatalf("invalid requests_per_second '%f': must be > 0", cfg.RequestsPerSecond)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
	}
	cfg.Location = loc

	return cfg
}

// ApplyDefaults fills every unset field with its default value.
func ApplyDefaults(cfg *Config) {
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "anthropic"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = 0.10
	}
	if cfg.RetryCount == 0 {
		cfg.RetryCount = 3
	}
	if cfg.RetryDelaySeconds == 0 {
		cfg.RetryDelaySeconds = 1.0
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 2.0
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./secpredict.db"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data/processed"
	}
	if cfg.CasesURL == "" {
		cfg.CasesURL = "https://www.sec.gov/litigation/litreleases.json"
	}
	if cfg.APIAddr == "" {
		cfg.APIAddr = ":8080"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
}

// RetryDelay returns the pause between retries of a failed model call.
func (c Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds * float64(time.Second))
}

// SlackConfigured reports whether run summaries can be posted to Slack.
func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.ReportChannelID != ""
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
