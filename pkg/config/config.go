package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, loaded once at startup.
type Config struct {
	Server  ServerConfig
	AWS     AWSConfig
	QA      QAConfig
	Overlay OverlayConfig
	Session SessionConfig
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        string
	CORSOrigins string
	BodyLimitMB int
}

// AWSConfig configures the shared AWS clients.
type AWSConfig struct {
	Region string

	// ServiceTimeout bounds each outbound Textract/Bedrock/S3 call.
	ServiceTimeout time.Duration
}

// QAConfig configures the question-answering model invocation.
// Defaults match the documented contract of the generation service.
type QAConfig struct {
	ModelID     string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// OverlayConfig configures the bounding-box visualization.
type OverlayConfig struct {
	Color       string
	StrokeWidth int
}

// SessionConfig configures the in-memory document session store.
type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// Load reads configuration from the environment with defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
			BodyLimitMB: getEnvInt("BODY_LIMIT_MB", 10),
		},
		AWS: AWSConfig{
			Region:         getEnv("AWS_REGION", "us-east-1"),
			ServiceTimeout: getEnvDuration("SERVICE_TIMEOUT", 60*time.Second),
		},
		QA: QAConfig{
			ModelID:     getEnv("BEDROCK_MODEL_ID", "anthropic.claude-v2"),
			MaxTokens:   getEnvInt("QA_MAX_TOKENS", 1000),
			Temperature: getEnvFloat("QA_TEMPERATURE", 0.5),
			TopP:        getEnvFloat("QA_TOP_P", 0.9),
		},
		Overlay: OverlayConfig{
			Color:       getEnv("OVERLAY_COLOR", "red"),
			StrokeWidth: getEnvInt("OVERLAY_STROKE", 2),
		},
		Session: SessionConfig{
			TTL:             getEnvDuration("SESSION_TTL", 30*time.Minute),
			CleanupInterval: getEnvDuration("SESSION_CLEANUP_INTERVAL", 5*time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
