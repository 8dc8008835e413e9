package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultChunkMaxTokens     = 1000
	DefaultChunkOverlapTokens = 200
	DefaultTopK               = 5
	DefaultQATopK             = 3
	DefaultSummaryMaxWords    = 150
	DefaultChallengeCount     = 3
)

// LLMConfig describes one model endpoint, either for inference or for
// embeddings.
type LLMConfig struct {
	Provider string `yaml:"provider"` // "openai" (default) or "ollama"
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`
}

// RAGConfig holds the retrieval pipeline knobs.
type RAGConfig struct {
	ChunkMaxTokens     int `yaml:"chunk_max_tokens"`
	ChunkOverlapTokens int `yaml:"chunk_overlap_tokens"`
	TopK               int `yaml:"top_k"`
	QATopK             int `yaml:"qa_top_k"`
	SummaryMaxWords    int `yaml:"summary_max_words"`
	ChallengeCount     int `yaml:"challenge_count"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	UploadDir string `yaml:"upload_dir"`
}

type Config struct {
	LLM      LLMConfig    `yaml:"llm"`
	EmbedLLM LLMConfig    `yaml:"embed_llm"`
	RAG      RAGConfig    `yaml:"rag"`
	Server   ServerConfig `yaml:"server"`
}

// LoadConfig reads the YAML config file and fills in defaults. A missing file
// is not an error; the defaults describe a working local setup. API keys left
// empty in the file are taken from the environment, with .env honored.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-3.5-turbo"
	}
	if c.LLM.Key == "" {
		c.LLM.Key = os.Getenv("OPENAI_API_KEY")
	}
	if c.EmbedLLM.Provider == "" {
		c.EmbedLLM.Provider = "openai"
	}
	if c.EmbedLLM.Model == "" {
		c.EmbedLLM.Model = "text-embedding-ada-002"
	}
	if c.EmbedLLM.Key == "" {
		c.EmbedLLM.Key = c.LLM.Key
	}
	if c.RAG.ChunkMaxTokens <= 0 {
		c.RAG.ChunkMaxTokens = DefaultChunkMaxTokens
	}
	if c.RAG.ChunkOverlapTokens <= 0 {
		c.RAG.ChunkOverlapTokens = DefaultChunkOverlapTokens
	}
	if c.RAG.TopK <= 0 {
		c.RAG.TopK = DefaultTopK
	}
	if c.RAG.QATopK <= 0 {
		c.RAG.QATopK = DefaultQATopK
	}
	if c.RAG.SummaryMaxWords <= 0 {
		c.RAG.SummaryMaxWords = DefaultSummaryMaxWords
	}
	if c.RAG.ChallengeCount <= 0 {
		c.RAG.ChallengeCount = DefaultChallengeCount
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Server.UploadDir == "" {
		c.Server.UploadDir = "./uploads"
	}
}
