package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Search     SearchConfig
	Ai         AIConfig
	Upload     UploadConfig
	Extraction ExtractionConfig
	Chat       ChatConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type SearchConfig struct {
	EmbeddingDimensions   int
	UseSemanticRanking    bool
	MinimumRelevanceScore float64
}

type AIConfig struct {
	EmbeddingProvider string // "azure" or "ollama"
	LLMProvider       string // "azure" or "ollama"

	AzureOpenAIEndpoint            string
	AzureOpenAIAPIKey              string
	AzureOpenAIAPIVersion          string
	AzureOpenAIDeployment          string
	AzureOpenAIEmbeddingDeployment string

	OllamaBaseURL        string
	OllamaModel          string
	OllamaEmbeddingModel string
}

type UploadConfig struct {
	MaxUploadBytes int64
	ChunkSizeWords int
}

type ExtractionConfig struct {
	// PDFExtractor selects the PDF text extraction backend:
	// "local" (in-process reader) or "layout" (remote layout-analysis service).
	// Empty means PDF uploads are rejected as unavailable.
	PDFExtractor   string
	LayoutEndpoint string
	LayoutAPIKey   string
}

type ChatConfig struct {
	EnableStreaming    bool
	DefaultTopK        int
	DefaultTemperature float64
	DefaultMaxTokens   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Search: SearchConfig{
			EmbeddingDimensions:   getEnvAsInt("EMBEDDING_DIMENSIONS", 1536),
			UseSemanticRanking:    getEnvAsBool("SEARCH_USE_SEMANTIC", true),
			MinimumRelevanceScore: getEnvAsFloat("MINIMUM_RELEVANCE_SCORE", 0.7),
		},
		Ai: AIConfig{
			EmbeddingProvider:              getEnv("EMBEDDING_PROVIDER", "azure"),
			LLMProvider:                    getEnv("LLM_PROVIDER", "azure"),
			AzureOpenAIEndpoint:            getEnv("AZURE_OPENAI_ENDPOINT", ""),
			AzureOpenAIAPIKey:              getEnv("AZURE_OPENAI_API_KEY", ""),
			AzureOpenAIAPIVersion:          getEnv("AZURE_OPENAI_API_VERSION", "2024-02-01"),
			AzureOpenAIDeployment:          getEnv("AZURE_OPENAI_DEPLOYMENT_NAME", ""),
			AzureOpenAIEmbeddingDeployment: getEnv("AZURE_OPENAI_EMBEDDING_DEPLOYMENT_NAME", ""),
			OllamaBaseURL:                  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:                    getEnv("OLLAMA_MODEL", "llama3"),
			OllamaEmbeddingModel:           getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Upload: UploadConfig{
			MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", 50*1024*1024),
			ChunkSizeWords: getEnvAsInt("CHUNK_SIZE_WORDS", 500),
		},
		Extraction: ExtractionConfig{
			PDFExtractor:   getEnv("PDF_EXTRACTOR", ""),
			LayoutEndpoint: getEnv("LAYOUT_SERVICE_ENDPOINT", ""),
			LayoutAPIKey:   getEnv("LAYOUT_SERVICE_KEY", ""),
		},
		Chat: ChatConfig{
			EnableStreaming:    getEnvAsBool("ENABLE_STREAMING", true),
			DefaultTopK:        getEnvAsInt("CHAT_DEFAULT_TOP_K", 5),
			DefaultTemperature: getEnvAsFloat("CHAT_DEFAULT_TEMPERATURE", 0.2),
			DefaultMaxTokens:   getEnvAsInt("CHAT_DEFAULT_MAX_TOKENS", 512),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseInt(strValue, 10, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
