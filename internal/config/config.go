package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Keys     APIKeys
	Ai       AIConfig
	Report   ReportConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	TurnLogFilePath    string
	CorsAllowedOrigins string
	NatsURL            string // empty disables cross-process events
	RedisURL           string
	OtelEnabled        bool
	OtelEndpoint       string
}

type DatabaseConfig struct {
	Connection   string // empty keeps the archive in memory and disables RAG
	LogQueries   bool
	MaxOpenConns int
}

type SessionConfig struct {
	Backend            string // "memory" or "redis"
	TTL                time.Duration
	CleanupInterval    time.Duration
	HistoryReplayTurns int
}

type APIKeys struct {
	TurnRecordedTopic string // watermill topic for archived turns
}

type AIConfig struct {
	LLMProvider       string // "ollama", "openai" or "mock"
	LLMBaseURL        string
	LLMModel          string
	LLMAPIKey         string
	LLMTimeout        time.Duration
	LLMRequireReady   bool
	EmbeddingProvider string // "ollama"
	OllamaBaseURL     string
	OllamaModel       string // embedding model
	RAGEnabled        bool
	RAGTopK           int
}

type ReportConfig struct {
	ChatHistoryURL string // optional external chat-history service
	LLMEnabled     bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5003"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			TurnLogFilePath:    getEnv("TURN_LOG_FILE_PATH", "logs/counseling_turns.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Connection:   getEnv("DB_CONNECTION_STRING", ""),
			LogQueries:   getEnvAsBool("DB_LOG_QUERIES", false),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
		},
		Session: SessionConfig{
			Backend:            strings.ToLower(getEnv("SESSION_BACKEND", "memory")),
			TTL:                getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			CleanupInterval:    getEnvAsDuration("SESSION_CLEANUP_INTERVAL", 10*time.Minute),
			HistoryReplayTurns: getEnvAsInt("HISTORY_REPLAY_TURNS", 3),
		},
		Keys: APIKeys{
			TurnRecordedTopic: getEnv("TURN_RECORDED_TOPIC_NAME", "COUNSELING_TURN_RECORDED"),
		},
		Ai: AIConfig{
			LLMProvider:       strings.ToLower(getEnv("LLM_PROVIDER", "ollama")),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			LLMModel:          getEnv("LLM_MODEL", "midm-counseling"),
			LLMAPIKey:         getEnv("LLM_API_KEY", ""),
			LLMTimeout:        getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
			LLMRequireReady:   getEnvAsBool("LLM_REQUIRE_READY", false),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			RAGEnabled:        getEnvAsBool("RAG_ENABLED", false),
			RAGTopK:           getEnvAsInt("RAG_TOP_K", 2),
		},
		Report: ReportConfig{
			ChatHistoryURL: getEnv("CHAT_HISTORY_URL", ""),
			LLMEnabled:     getEnvAsBool("REPORT_LLM_ENABLED", true),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	return fallback
}
