package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MQConfig struct {
	URL string `yaml:"url"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type AuthConfig struct {
	JWTSecret         string `yaml:"jwt_secret"`
	AdminUser         string `yaml:"admin_user"`
	AdminPasswordHash string `yaml:"admin_password_hash"`
}

type OpenAIConfig struct {
	APIKey         string `yaml:"api_key"`
	ChatModel      string `yaml:"chat_model"`
	EmbeddingModel string `yaml:"embedding_model"`
}

type QdrantConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Collection string `yaml:"collection"`
	VectorSize uint64 `yaml:"vector_size"`
}

type GmailConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// TriageConfig carries the pipeline tunables. Top-K and the relevance
// threshold are configuration on purpose; call sites must not hard-wire
// them.
type TriageConfig struct {
	TopK               int     `yaml:"top_k"`
	RelevanceThreshold float64 `yaml:"relevance_threshold"`
	PollIntervalSec    int     `yaml:"poll_interval_sec"`
	ErrorBackoffSec    int     `yaml:"error_backoff_sec"`
}

func (t TriageConfig) PollInterval() time.Duration {
	return time.Duration(t.PollIntervalSec) * time.Second
}

func (t TriageConfig) ErrorBackoff() time.Duration {
	return time.Duration(t.ErrorBackoffSec) * time.Second
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Redis  RedisConfig  `yaml:"redis"`
	MQ     MQConfig     `yaml:"mq"`
	Auth   AuthConfig   `yaml:"auth"`
	OpenAI OpenAIConfig `yaml:"openai"`
	Qdrant QdrantConfig `yaml:"qdrant"`
	Gmail  GmailConfig  `yaml:"gmail"`
	Triage TriageConfig `yaml:"triage"`
}

// Load reads the YAML config file and applies environment overrides.
// Environment variables take priority over file values.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	overrideFromEnv(cfg)

	if cfg.Triage.TopK <= 0 {
		cfg.Triage.TopK = 3
	}
	if cfg.Triage.RelevanceThreshold <= 0 {
		cfg.Triage.RelevanceThreshold = 0.3
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: ":8080"},
		OpenAI: OpenAIConfig{
			ChatModel:      "gpt-4o-mini",
			EmbeddingModel: "text-embedding-ada-002",
		},
		Qdrant: QdrantConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: "knowledge_base",
			VectorSize: 1536,
		},
		Triage: TriageConfig{
			TopK:               3,
			RelevanceThreshold: 0.3,
			PollIntervalSec:    30,
			ErrorBackoffSec:    60,
		},
	}
}

func overrideFromEnv(cfg *Config) {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setStr(&cfg.Server.Port, "SERVER_PORT")
	setStr(&cfg.DB.Host, "DB_HOST")
	setInt(&cfg.DB.Port, "DB_PORT")
	setStr(&cfg.DB.User, "DB_USER")
	setStr(&cfg.DB.Password, "DB_PASSWORD")
	setStr(&cfg.DB.Name, "DB_NAME")
	setStr(&cfg.Redis.Addr, "REDIS_ADDR")
	setStr(&cfg.Redis.Password, "REDIS_PASSWORD")
	setStr(&cfg.MQ.URL, "MQ_URL")
	setStr(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setStr(&cfg.Auth.AdminUser, "ADMIN_USER")
	setStr(&cfg.Auth.AdminPasswordHash, "ADMIN_PASSWORD_HASH")
	setStr(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setStr(&cfg.OpenAI.ChatModel, "OPENAI_CHAT_MODEL")
	setStr(&cfg.Qdrant.Host, "QDRANT_HOST")
	setInt(&cfg.Qdrant.Port, "QDRANT_PORT")
	setStr(&cfg.Gmail.ClientID, "GOOGLE_CLIENT_ID")
	setStr(&cfg.Gmail.ClientSecret, "GOOGLE_CLIENT_SECRET")
}
