package config

import (
	"log"
	"os"
)

type Config struct {
	Port    string
	BaseURL string

	GeminiAPIKey string
	OpenAIAPIKey string
	FalAPIKey    string

	ImagenModel     string
	Veo2Model       string
	Veo3Model       string
	NanoBananaModel string
	DalleModel      string
	ChatModel       string

	GCSBucket      string
	GCSCredentials string

	ImagesDir string
	VideosDir string
	AudioDir  string

	DatabaseURL string

	TelegramBotToken string
	WebhookURL       string
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() *Config {
	return &Config{
		Port:    getEnv("PORT", "8080"),
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		GeminiAPIKey: mustEnv("GEMINI_API_KEY"),
		OpenAIAPIKey: mustEnv("OPEN_AI_API_KEY"),
		FalAPIKey:    mustEnv("FAL_API_KEY"),

		ImagenModel:     getEnv("IMAGEN_MODEL", "imagen-4.0-generate-001"),
		Veo2Model:       getEnv("VEO2_MODEL", "veo-2.0-generate-001"),
		Veo3Model:       getEnv("VEO3_MODEL", "veo-3.0-generate-preview"),
		NanoBananaModel: getEnv("NANOBANANA_MODEL", "gemini-2.5-flash-image-preview"),
		DalleModel:      getEnv("DALLE_MODEL", "dall-e-3"),
		ChatModel:       getEnv("CHAT_MODEL", "gpt-4o"),

		GCSBucket:      getEnv("GCS_BUCKET_NAME", ""),
		GCSCredentials: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		ImagesDir: getEnv("IMAGES_DIR", "generated_images"),
		VideosDir: getEnv("VIDEOS_DIR", "generated_videos"),
		AudioDir:  getEnv("AUDIO_DIR", "generated_audio"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),
	}
}

// LoadBot is Load plus the envs only the Telegram binary requires.
func LoadBot() *Config {
	cfg := Load()
	if cfg.TelegramBotToken == "" {
		log.Fatalf("missing required env TELEGRAM_BOT_TOKEN")
	}
	return cfg
}
