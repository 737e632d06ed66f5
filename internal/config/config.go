package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGoogleAI = "googleai"
	ProviderOpenAI   = "openai"
	ProviderOllama   = "ollama"

	defaultProvider       = ProviderGoogleAI
	defaultModel          = "gemini-2.0-flash"
	defaultEmbeddingModel = "embedding-001"
	defaultTemperature    = 0.7
	defaultChunkSize      = 1000
	defaultChunkOverlap   = 200
	defaultTopK           = 4
	defaultMaxContext     = 30000
	defaultSessionDir     = "./sessions"
	defaultServerAddr     = ":8080"
	defaultSessionTTL     = 30 * time.Minute
)

type Config struct {
	LLM      LLMConfig     `yaml:"llm"`
	EmbedLLM LLMConfig     `yaml:"embed_llm"`
	RAG      RAGConfig     `yaml:"rag"`
	Session  SessionConfig `yaml:"session"`
	Server   ServerConfig  `yaml:"server"`
	Debug    bool          `yaml:"debug"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	BaseURL     string  `yaml:"base_url"`
	Key         string  `yaml:"key" json:"-"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

type RAGConfig struct {
	ChunkSize       int `yaml:"chunk_size"`
	ChunkOverlap    int `yaml:"chunk_overlap"`
	TopK            int `yaml:"top_k"`
	MaxContextChars int `yaml:"max_context_chars"`
}

type SessionConfig struct {
	Dir string `yaml:"dir"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	SessionTTL   time.Duration `yaml:"session_ttl"` // idle sessions are dropped after this
	AllowOrigins []string      `yaml:"allow_origins"`
}

// MarshalYAML masks the credential so the config can be logged.
func (c LLMConfig) MarshalYAML() (interface{}, error) {
	type plain LLMConfig
	p := plain(c)
	if p.Key != "" {
		p.Key = "***"
	}
	return p, nil
}

// LoadConfig reads the yaml file at path, loads a .env file if one is present, applies
// credential overrides from the environment and fills defaults. A missing config file is not
// an error: defaults and the environment are enough to run.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.ApplyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("STUDY_SESSION_DIR"); v != "" {
		c.Session.Dir = v
	}
	if v := os.Getenv("STUDY_ADDR"); v != "" {
		c.Server.Addr = v
	}
	key := os.Getenv("STUDY_API_KEY")
	for _, llm := range []*LLMConfig{&c.LLM, &c.EmbedLLM} {
		if llm.Key != "" {
			continue
		}
		switch {
		case key != "":
			llm.Key = key
		case llm.provider() == ProviderGoogleAI:
			llm.Key = os.Getenv("GOOGLE_API_KEY")
		case llm.provider() == ProviderOpenAI:
			llm.Key = os.Getenv("OPENAI_API_KEY")
		}
	}
}

func (l *LLMConfig) provider() string {
	if l.Provider == "" {
		return defaultProvider
	}
	return strings.ToLower(l.Provider)
}

// ApplyDefaults fills zero values. The embedding config inherits provider, endpoint and
// credential from the generation config when left empty.
func (c *Config) ApplyDefaults() {
	c.LLM.Provider = c.LLM.provider()
	if c.LLM.Model == "" && c.LLM.Provider == ProviderGoogleAI {
		c.LLM.Model = defaultModel
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = defaultTemperature
	}

	if c.EmbedLLM.Provider == "" {
		c.EmbedLLM.Provider = c.LLM.Provider
		if c.EmbedLLM.BaseURL == "" {
			c.EmbedLLM.BaseURL = c.LLM.BaseURL
		}
	}
	c.EmbedLLM.Provider = c.EmbedLLM.provider()
	if c.EmbedLLM.Key == "" {
		c.EmbedLLM.Key = c.LLM.Key
	}
	if c.EmbedLLM.Model == "" && c.EmbedLLM.Provider == ProviderGoogleAI {
		c.EmbedLLM.Model = defaultEmbeddingModel
	}

	if c.RAG.ChunkSize <= 0 {
		c.RAG.ChunkSize = defaultChunkSize
	}
	if c.RAG.ChunkOverlap <= 0 || c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		c.RAG.ChunkOverlap = min(defaultChunkOverlap, c.RAG.ChunkSize/2)
	}
	if c.RAG.TopK <= 0 {
		c.RAG.TopK = defaultTopK
	}
	if c.RAG.MaxContextChars <= 0 {
		c.RAG.MaxContextChars = defaultMaxContext
	}
	if c.Session.Dir == "" {
		c.Session.Dir = defaultSessionDir
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultServerAddr
	}
	if c.Server.SessionTTL <= 0 {
		c.Server.SessionTTL = defaultSessionTTL
	}
}

// Validate checks the settings that would otherwise only fail on the first remote call.
func (c *Config) Validate() error {
	for name, llm := range map[string]LLMConfig{"llm": c.LLM, "embed_llm": c.EmbedLLM} {
		switch llm.Provider {
		case ProviderGoogleAI, ProviderOpenAI:
			if llm.Key == "" {
				return fmt.Errorf("%s: api key is required for provider %s", name, llm.Provider)
			}
		case ProviderOllama:
			if llm.Model == "" {
				return fmt.Errorf("%s: model is required for provider %s", name, llm.Provider)
			}
		default:
			return fmt.Errorf("%s: unsupported provider %q", name, llm.Provider)
		}
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		return fmt.Errorf("llm: temperature %.2f out of range [0,1]", c.LLM.Temperature)
	}
	return nil
}
