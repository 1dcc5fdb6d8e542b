package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// Database設定
	Database DatabaseConfig

	// OpenAI設定（Embeddings + 要約生成）
	OpenAI OpenAIConfig

	// NLPサイドカー設定（固有表現抽出・文分割）
	NLP NLPConfig

	// HTTPサーバ設定
	Server ServerConfig

	// ジョブ実行設定
	Job JobConfig

	// 検索設定
	Search SearchConfig
}

// DatabaseConfig はデータベース接続設定
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// OpenAIConfig はOpenAI API設定
type OpenAIConfig struct {
	APIKey             string
	EmbeddingModel     string
	EmbeddingDimension int
	SummaryModel       string
	SummaryMaxTokens   int
}

// NLPConfig はNLPサイドカーの接続設定
type NLPConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// ServerConfig はHTTPサーバ設定
type ServerConfig struct {
	Addr string
}

// JobConfig はバックグラウンド実行の設定
type JobConfig struct {
	// Timeout は1ジョブの実行に許す最大時間
	Timeout time.Duration
}

// SearchConfig は検索のデフォルト設定
type SearchConfig struct {
	Limit int
}

// Load は環境変数または.envファイルから設定を読み込みます
func Load(envFilePath string) (*Config, error) {
	// .envファイルが存在する場合は読み込む
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// ファイルが存在しない場合はエラーとしない（環境変数のみで動作可能）
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "kairos"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "postgres"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		OpenAI: OpenAIConfig{
			APIKey:             getEnv("OPENAI_API_KEY", ""),
			EmbeddingModel:     getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimension: getEnvAsInt("OPENAI_EMBEDDING_DIMENSION", 1536),
			SummaryModel:       getEnv("OPENAI_SUMMARY_MODEL", "gpt-4o-mini"),
			SummaryMaxTokens:   getEnvAsInt("OPENAI_SUMMARY_MAX_TOKENS", 512),
		},
		NLP: NLPConfig{
			Endpoint: getEnv("NLP_ENDPOINT", "http://localhost:8081"),
			APIKey:   getEnv("NLP_API_KEY", ""),
			Timeout:  getEnvAsDuration("NLP_TIMEOUT", 15*time.Second),
		},
		Server: ServerConfig{
			Addr: getEnv("SERVER_ADDR", ":8000"),
		},
		Job: JobConfig{
			Timeout: getEnvAsDuration("JOB_TIMEOUT", 5*time.Minute),
		},
		Search: SearchConfig{
			Limit: getEnvAsInt("SEARCH_LIMIT", 10),
		},
	}

	return cfg, nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt は環境変数を整数として取得します
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration は環境変数をtime.Durationとして取得します
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
