package config

import (
	"context"
	"fmt"
	"os"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "NEWSBOT_CONFIG"

// Config holds every setting the pipeline needs, constructed once at startup
// and passed by parameter into the components that use it.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Notion     NotionConfig     `yaml:"notion"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Feeds      []FeedConfig     `yaml:"feeds"`
	Keywords   KeywordConfig    `yaml:"keywords"`
	Conference ConferenceConfig `yaml:"conference"`
}

// LoggingConfig selects log verbosity and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// NotionConfig carries the integration token and the target database IDs.
// ConferenceDB and QuestionDB are optional: leaving one empty disables that
// stage without failing the run.
type NotionConfig struct {
	Token        string `yaml:"token" env:"NOTION_TOKEN"`
	NewsDB       string `yaml:"newsDb" env:"NOTION_NEWS_DB"`
	ConferenceDB string `yaml:"conferenceDb" env:"NOTION_CONFERENCE_DB"`
	QuestionDB   string `yaml:"questionDb" env:"NOTION_QUESTION_DB"`
}

// OpenAIConfig defines how to contact the chat-completions endpoint.
type OpenAIConfig struct {
	Endpoint string `yaml:"endpoint" env:"OPENAI_ENDPOINT"`
	Model    string `yaml:"model" env:"OPENAI_MODEL"`
	APIKey   string `yaml:"apiKey" env:"OPENAI_API_KEY"`
}

// FeedConfig names one RSS source. Name doubles as the stored source label
// and as the prefix stripped during title normalization.
type FeedConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// KeywordConfig drives the classifier.
type KeywordConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// ConferenceConfig points at the listing page to scrape.
type ConferenceConfig struct {
	URL string `yaml:"url"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides on top of built-in defaults.
func Load(ctx context.Context) (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}

	if cfg.Notion.Token == "" {
		return Config{}, fmt.Errorf("NOTION_TOKEN is required")
	}
	if cfg.Notion.NewsDB == "" {
		return Config{}, fmt.Errorf("NOTION_NEWS_DB is required")
	}

	return cfg, nil
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Notion.Token != "" {
		base.Notion.Token = override.Notion.Token
	}
	if override.Notion.NewsDB != "" {
		base.Notion.NewsDB = override.Notion.NewsDB
	}
	if override.Notion.ConferenceDB != "" {
		base.Notion.ConferenceDB = override.Notion.ConferenceDB
	}
	if override.Notion.QuestionDB != "" {
		base.Notion.QuestionDB = override.Notion.QuestionDB
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}
	if len(override.Keywords.Includes) > 0 {
		base.Keywords.Includes = override.Keywords.Includes
	}
	if len(override.Keywords.Excludes) > 0 {
		base.Keywords.Excludes = override.Keywords.Excludes
	}
	if override.Conference.URL != "" {
		base.Conference.URL = override.Conference.URL
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		OpenAI: OpenAIConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
		},
		Feeds: []FeedConfig{
			{Name: "Yahooニュース", URL: "https://news.yahoo.co.jp/rss/categories/science.xml"},
			{Name: "医療NEWS", URL: "https://www.qlifepro.com/news/feed"},
		},
		Keywords: KeywordConfig{
			Includes: []string{"理学療法", "リハビリ", "運動療法", "姿勢", "PT"},
			Excludes: []string{"求人", "募集"},
		},
		Conference: ConferenceConfig{URL: "https://www.jspt.or.jp/conference/"},
	}
}
