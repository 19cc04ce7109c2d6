package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig
	RateLimit  RateLimitConfig

	// LLM Provider Abstraction
	LLM LLMConfig

	// Knowledge retrieval
	Retrieval RetrievalConfig
	Qdrant    QdrantConfig
	Voyage    VoyageConfig
	Cohere    CohereConfig

	// Caller profile and hand-off
	CRM      CRMConfig
	Notifier NotifierConfig

	// Conversation state
	Conversation ConversationConfig
	Redis        RedisConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type RateLimitConfig struct {
	Enabled        bool
	RequestsPerMin int
}

// LLMConfig holds configuration for the LLM provider abstraction layer
type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	FallbackEnabled bool             `yaml:"fallback_enabled"`
	RetryAttempts   int              `yaml:"retry_attempts"`
	RetryDelay      string           `yaml:"retry_delay"`
	MaxTotalTimeout string           `yaml:"max_total_timeout"` // Global timeout for entire fallback chain

	Models      ModelsConfig `yaml:"models"`
	Temperature float64      `yaml:"temperature"`
}

// ModelsConfig names the model used by each step of a routing cycle.
type ModelsConfig struct {
	Classifier string `yaml:"classifier"`
	Chat       string `yaml:"chat"`
	RAG        string `yaml:"rag"`
}

// ProviderConfig holds configuration for a single LLM provider
type ProviderConfig struct {
	Name     string `yaml:"name"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

type RetrievalConfig struct {
	Backend         string // qdrant | bleve | none
	TopK            int
	DatasetIDs      []string
	MaxContextChars int
	KnowledgeDir    string
	ReloadSchedule  string
	ChunkSize       int
	ChunkOverlap    int
}

type QdrantConfig struct {
	URL            string
	CollectionName string
	VectorSize     int
}

type VoyageConfig struct {
	APIKey string
	Model  string
}

type CohereConfig struct {
	APIKey      string
	RerankModel string
}

type CRMConfig struct {
	BaseURL         string
	APIKey          string
	MaxRetries      int
	RetryInterval   time.Duration
	ConnectTimeout  time.Duration
	ReadTimeout     time.Duration
	ProfileCacheTTL time.Duration
}

type NotifierConfig struct {
	Mode      string // direct | queue
	Workers   int
	QueueSize int
	Timeout   time.Duration
	QueueKey  string
}

type ConversationConfig struct {
	Store      string // memory | redis
	TTL        time.Duration
	MaxEntries int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
// CONFIG_PATH, when set, names the file explicitly.
func Load() (*Config, error) {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/app/")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")
	cfg.RateLimit.Enabled = viper.GetBool("rate_limit.enabled")
	cfg.RateLimit.RequestsPerMin = viper.GetInt("rate_limit.requests_per_min")

	// LLM Provider Abstraction
	cfg.LLM.FallbackEnabled = viper.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = viper.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = viper.GetString("llm.retry_delay")
	cfg.LLM.MaxTotalTimeout = viper.GetString("llm.max_total_timeout")
	cfg.LLM.Models.Classifier = viper.GetString("llm.models.classifier")
	cfg.LLM.Models.Chat = viper.GetString("llm.models.chat")
	cfg.LLM.Models.RAG = viper.GetString("llm.models.rag")
	cfg.LLM.Temperature = viper.GetFloat64("llm.temperature")

	if viper.IsSet("llm.providers") {
		providersRaw := viper.Get("llm.providers")
		if providersList, ok := providersRaw.([]interface{}); ok {
			for _, p := range providersList {
				if providerMap, ok := p.(map[string]interface{}); ok {
					provider := ProviderConfig{
						Name:     getStringFromMap(providerMap, "name"),
						Enabled:  getBoolFromMap(providerMap, "enabled"),
						Priority: getIntFromMap(providerMap, "priority"),
						APIKey:   expandEnvVar(getStringFromMap(providerMap, "api_key")),
						BaseURL:  getStringFromMap(providerMap, "base_url"),
						Model:    getStringFromMap(providerMap, "model"),
						Timeout:  getStringFromMap(providerMap, "timeout"),
					}
					cfg.LLM.Providers = append(cfg.LLM.Providers, provider)
				}
			}
		}
	}

	if err := validateLLMConfig(&cfg.LLM); err != nil {
		return nil, err
	}

	// Retrieval
	cfg.Retrieval.Backend = viper.GetString("retrieval.backend")
	cfg.Retrieval.TopK = viper.GetInt("retrieval.top_k")
	cfg.Retrieval.DatasetIDs = splitList(viper.GetString("retrieval.dataset_ids"))
	cfg.Retrieval.MaxContextChars = viper.GetInt("retrieval.max_context_chars")
	cfg.Retrieval.KnowledgeDir = viper.GetString("retrieval.knowledge_dir")
	cfg.Retrieval.ReloadSchedule = viper.GetString("retrieval.reload_schedule")
	cfg.Retrieval.ChunkSize = viper.GetInt("retrieval.chunk_size")
	cfg.Retrieval.ChunkOverlap = viper.GetInt("retrieval.chunk_overlap")

	cfg.Qdrant.URL = viper.GetString("qdrant.url")
	cfg.Qdrant.CollectionName = viper.GetString("qdrant.collection_name")
	cfg.Qdrant.VectorSize = viper.GetInt("qdrant.vector_size")
	if qdrantURL := viper.GetString("qdrant_url"); qdrantURL != "" {
		cfg.Qdrant.URL = qdrantURL
	}

	cfg.Voyage.APIKey = expandEnvVar(viper.GetString("voyage.api_key"))
	cfg.Voyage.Model = viper.GetString("voyage.model")
	if voyageKey := viper.GetString("voyage_api_key"); voyageKey != "" {
		cfg.Voyage.APIKey = voyageKey
	}

	cfg.Cohere.APIKey = expandEnvVar(viper.GetString("cohere.api_key"))
	cfg.Cohere.RerankModel = viper.GetString("cohere.rerank_model")
	if cohereKey := viper.GetString("cohere_api_key"); cohereKey != "" {
		cfg.Cohere.APIKey = cohereKey
	}

	// CRM
	cfg.CRM.BaseURL = viper.GetString("crm.base_url")
	cfg.CRM.APIKey = expandEnvVar(viper.GetString("crm.api_key"))
	if crmKey := viper.GetString("crm_api_key"); crmKey != "" {
		cfg.CRM.APIKey = crmKey
	}
	cfg.CRM.MaxRetries = viper.GetInt("crm.max_retries")

	var err error
	if cfg.CRM.RetryInterval, err = getDuration("crm.retry_interval"); err != nil {
		return nil, err
	}
	if cfg.CRM.ConnectTimeout, err = getDuration("crm.connect_timeout"); err != nil {
		return nil, err
	}
	if cfg.CRM.ReadTimeout, err = getDuration("crm.read_timeout"); err != nil {
		return nil, err
	}
	if cfg.CRM.ProfileCacheTTL, err = getDuration("crm.profile_cache_ttl"); err != nil {
		return nil, err
	}

	// Notifier
	cfg.Notifier.Mode = viper.GetString("notifier.mode")
	cfg.Notifier.Workers = viper.GetInt("notifier.workers")
	cfg.Notifier.QueueSize = viper.GetInt("notifier.queue_size")
	cfg.Notifier.QueueKey = viper.GetString("notifier.queue_key")
	if cfg.Notifier.Timeout, err = getDuration("notifier.timeout"); err != nil {
		return nil, err
	}

	// Conversation state
	cfg.Conversation.Store = viper.GetString("conversation.store")
	cfg.Conversation.MaxEntries = viper.GetInt("conversation.max_entries")
	if cfg.Conversation.TTL, err = getDuration("conversation.ttl"); err != nil {
		return nil, err
	}

	cfg.Redis.Addr = viper.GetString("redis.addr")
	cfg.Redis.Password = expandEnvVar(viper.GetString("redis.password"))
	cfg.Redis.DB = viper.GetInt("redis.db")
	if redisAddr := viper.GetString("redis_addr"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "development")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests_per_min", 60)

	// LLM defaults
	viper.SetDefault("llm.fallback_enabled", true)
	viper.SetDefault("llm.retry_attempts", 3)
	viper.SetDefault("llm.retry_delay", "1s")
	viper.SetDefault("llm.max_total_timeout", "60s") // Default: 60 seconds for entire fallback chain
	viper.SetDefault("llm.models.classifier", "gpt-3.5-turbo-0125")
	viper.SetDefault("llm.models.chat", "gpt-3.5-turbo")
	viper.SetDefault("llm.models.rag", "o3-mini")
	viper.SetDefault("llm.temperature", 0.7)

	// Retrieval
	viper.SetDefault("retrieval.backend", "qdrant")
	viper.SetDefault("retrieval.top_k", 5)
	viper.SetDefault("retrieval.max_context_chars", 6000)
	viper.SetDefault("retrieval.knowledge_dir", "./knowledge")
	viper.SetDefault("retrieval.reload_schedule", "@every 1h")
	viper.SetDefault("retrieval.chunk_size", 800)
	viper.SetDefault("retrieval.chunk_overlap", 100)
	viper.SetDefault("qdrant.collection_name", "ecodrive_knowledge")
	viper.SetDefault("qdrant.vector_size", 1024)
	viper.SetDefault("voyage.model", "voyage-3")
	viper.SetDefault("cohere.rerank_model", "rerank-english-v3.0")

	// CRM
	viper.SetDefault("crm.max_retries", 3)
	viper.SetDefault("crm.retry_interval", "100ms")
	viper.SetDefault("crm.connect_timeout", "30s")
	viper.SetDefault("crm.read_timeout", "60s")
	viper.SetDefault("crm.profile_cache_ttl", "5m")

	// Notifier
	viper.SetDefault("notifier.mode", "direct")
	viper.SetDefault("notifier.workers", 4)
	viper.SetDefault("notifier.queue_size", 256)
	viper.SetDefault("notifier.timeout", "10s")
	viper.SetDefault("notifier.queue_key", "ecodrive:handoff")

	// Conversation state
	viper.SetDefault("conversation.store", "memory")
	viper.SetDefault("conversation.ttl", "24h")
	viper.SetDefault("conversation.max_entries", 10000)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}

	return value
}

// validateLLMConfig validates the LLM configuration
func validateLLMConfig(cfg *LLMConfig) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("no LLM providers configured - please add llm.providers section to config.yaml")
	}

	enabledCount := 0
	priorityMap := make(map[int]bool)

	for i, provider := range cfg.Providers {
		if provider.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if provider.Model == "" {
			return fmt.Errorf("provider %s: model is required", provider.Name)
		}

		if provider.Enabled {
			enabledCount++

			if provider.Priority <= 0 {
				return fmt.Errorf("provider %s: priority must be positive", provider.Name)
			}

			if priorityMap[provider.Priority] {
				return fmt.Errorf("provider %s: duplicate priority %d", provider.Name, provider.Priority)
			}
			priorityMap[provider.Priority] = true

			if provider.APIKey == "" {
				fmt.Printf("Warning: provider %s has no API key configured\n", provider.Name)
			}
		}
	}

	if enabledCount == 0 {
		return fmt.Errorf("no enabled LLM providers")
	}

	if _, err := time.ParseDuration(cfg.RetryDelay); cfg.RetryDelay != "" && err != nil {
		return fmt.Errorf("llm.retry_delay: %w", err)
	}
	if _, err := time.ParseDuration(cfg.MaxTotalTimeout); cfg.MaxTotalTimeout != "" && err != nil {
		return fmt.Errorf("llm.max_total_timeout: %w", err)
	}

	return nil
}

// getDuration reads key as a duration string and fails loudly on bad input.
func getDuration(key string) (time.Duration, error) {
	raw := viper.GetString(key)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	return d, nil
}

// splitList splits a comma separated value since viper does not parse arrays from env.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		if i, ok := val.(int); ok {
			return i
		}
		// Handle float64 from JSON unmarshaling
		if f, ok := val.(float64); ok {
			return int(f)
		}
	}
	return 0
}
