// Telegram front-end: text messages become image generation requests and the
// reply carries the stored media URL.
package main

import (
	"context"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"google.golang.org/genai"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/config"
	"media-proxy/api/internal/media"
	"media-proxy/api/internal/media/gemini"
	"media-proxy/api/internal/storage"
)

func main() {
	cfg := config.LoadBot()
	ctx := context.Background()

	gclient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatalf("genai client: %v", err)
	}

	var gcs *storage.GCS
	if cfg.GCSBucket != "" {
		gcs, err = storage.NewGCS(ctx, cfg.GCSBucket, cfg.GCSCredentials)
		if err != nil {
			log.Fatalf("gcs: %v", err)
		}
	}
	var uploader storage.Uploader
	if gcs != nil {
		uploader = gcs
	}
	st, err := storage.NewStore(uploader, cfg.BaseURL, cfg.ImagesDir, cfg.VideosDir, cfg.AudioDir)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	gen := gemini.NewImagenGenerator(gclient, cfg.ImagenModel, st)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal(err)
	}
	bot.Debug = false
	log.Printf("bot authorized as @%s", bot.Self.UserName)

	runPolling(ctx, bot, func(upd tgbotapi.Update) {
		handleUpdate(bot, gen, upd)
	})
}

func handleUpdate(bot *tgbotapi.BotAPI, gen media.Generator, upd tgbotapi.Update) {
	if upd.Message == nil || strings.TrimSpace(upd.Message.Text) == "" {
		return
	}
	chatID := upd.Message.Chat.ID
	prompt := strings.TrimSpace(upd.Message.Text)

	if prompt == "/start" {
		reply(bot, chatID, "Send me a prompt and I will generate an image for you.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	res, err := gen.Generate(ctx, media.Request{Prompt: prompt, Style: "Photo", Shape: "square"})
	if err != nil {
		resp := apperr.Classify(err, "Google AI", "image generation")
		reply(bot, chatID, resp.Message)
		return
	}
	reply(bot, chatID, res.MediaURL)
}

func reply(bot *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := bot.Send(msg); err != nil {
		log.Printf("send failed: %v", err)
	}
}

// runPolling is a long-poll loop that backs off on Telegram errors instead of
// exiting.
func runPolling(ctx context.Context, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for {
		select {
		case <-ctx.Done():
			log.Printf("polling: context cancelled")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := baseDelay
			if strings.Contains(strings.ToLower(err.Error()), "too many requests") {
				d = 3 * time.Second
			}
			if d > maxDelay {
				d = maxDelay
			}
			log.Printf("polling error: %v; retry in %v", err, d)
			time.Sleep(d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 {
			time.Sleep(200 * time.Millisecond)
		}
	}
}
