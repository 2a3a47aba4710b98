package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	ggenai "github.com/google/generative-ai-go/genai"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"google.golang.org/api/option"
	"google.golang.org/genai"

	"media-proxy/api/internal/config"
	"media-proxy/api/internal/handle"
	"media-proxy/api/internal/httpserver"
	"media-proxy/api/internal/media/dream"
	"media-proxy/api/internal/media/enhance"
	"media-proxy/api/internal/media/fal"
	"media-proxy/api/internal/media/gemini"
	"media-proxy/api/internal/media/openai"
	"media-proxy/api/internal/storage"
	"media-proxy/api/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// provider clients, constructed once and injected
	oai := openai.New(cfg.OpenAIAPIKey)
	falc := fal.New(cfg.FalAPIKey)

	gclient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatalf("genai client: %v", err)
	}
	nbClient, err := ggenai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Fatalf("generative-ai client: %v", err)
	}
	defer nbClient.Close()

	// storage: GCS when a bucket is configured, local disk always
	var gcs *storage.GCS
	if cfg.GCSBucket != "" {
		gcs, err = storage.NewGCS(ctx, cfg.GCSBucket, cfg.GCSCredentials)
		if err != nil {
			log.Fatalf("gcs: %v", err)
		}
		log.Printf("cloud storage enabled, bucket %s", cfg.GCSBucket)
	} else {
		log.Printf("no GCS bucket configured, serving media from local disk")
	}
	var uploader storage.Uploader
	if gcs != nil {
		uploader = gcs
	}
	st, err := storage.NewStore(uploader, cfg.BaseURL, cfg.ImagesDir, cfg.VideosDir, cfg.AudioDir)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	// generation history is optional
	var history *store.HistoryRepo
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("sql.Open: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(1 * time.Hour)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			log.Printf("db unreachable, history disabled: %v", err)
		} else {
			history = store.NewHistoryRepo(db)
			log.Printf("generation history enabled")
		}
		cancel()
	}

	dreamImagen := gemini.NewImagenGenerator(gclient, cfg.ImagenModel, st)
	dreamImagen.Feature = "dream"

	h := handle.New(
		dream.New(oai, cfg.ChatModel, dreamImagen),
		enhance.New(oai, cfg.ChatModel),
		fal.NewMusicGenerator(falc, st),
		fal.NewAvatarGenerator(falc, st),
		gcs,
		history,
	)

	gens := httpserver.Generators{
		Imagen:     gemini.NewImagenGenerator(gclient, cfg.ImagenModel, st),
		Dalle:      openai.NewDalleGenerator(oai, cfg.DalleModel, st),
		NanoBanana: gemini.NewNanoBananaGenerator(nbClient, cfg.NanoBananaModel, st),
		FluxSRPO: fal.NewImageGenerator(falc, fal.ImageConfig{
			Model: "fal-ai/flux-1/srpo", Feature: "flux_srpo",
		}, st),
		FluxKontextDev: fal.NewImageGenerator(falc, fal.ImageConfig{
			Model: "fal-ai/flux-kontext/dev", Feature: "flux_kontext_dev",
		}, st),
		FluxKontextEdit: fal.NewImageGenerator(falc, fal.ImageConfig{
			Model: "fal-ai/flux-kontext/dev", Feature: "flux_kontext_edit",
			AcceptsImages: true, MaxImages: 1,
		}, st),
		SeedreamEdit: fal.NewImageGenerator(falc, fal.ImageConfig{
			Model: "fal-ai/bytedance/seedream/v4/edit", Feature: "seedream_edit",
			AcceptsImages: true, MaxImages: 4,
			ExtraArgs: map[string]any{"num_inference_steps": 50, "guidance_scale": 7.5},
		}, st),
		QwenImage: fal.NewImageGenerator(falc, fal.ImageConfig{
			Model: "fal-ai/qwen-image", Feature: "qwen_image",
		}, st),

		Veo2: gemini.NewVeoGenerator(gclient, cfg.Veo2Model, "videogen", st),
		Veo3: gemini.NewVeoGenerator(gclient, cfg.Veo3Model, "videogen3", st),
		KlingText: fal.NewVideoGenerator(falc, fal.VideoConfig{
			Model: "fal-ai/kling-video/v2.1/standard/text-to-video", Feature: "kling_text",
		}, st),
		KlingImage: fal.NewVideoGenerator(falc, fal.VideoConfig{
			Model: "fal-ai/kling-video/v2.1/standard/image-to-video", Feature: "kling_image",
			RequiresImage: true,
		}, st),
		PixverseText: fal.NewVideoGenerator(falc, fal.VideoConfig{
			Model: "fal-ai/pixverse/v4.5/text-to-video", Feature: "pixverse_text",
		}, st),
		PixverseImage: fal.NewVideoGenerator(falc, fal.VideoConfig{
			Model: "fal-ai/pixverse/v4.5/image-to-video", Feature: "pixverse_image",
			RequiresImage: true,
		}, st),
		Wan22: fal.NewVideoGenerator(falc, fal.VideoConfig{
			Model: "fal-ai/wan/v2.2-a14b/image-to-video", Feature: "wan22",
			RequiresImage: true,
		}, st),
	}

	mux := httpserver.New(h, gens, httpserver.StaticDirs{
		Images: cfg.ImagesDir,
		Videos: cfg.VideosDir,
		Audio:  cfg.AudioDir,
	})
	log.Fatal(httpserver.StartHTTP(":"+cfg.Port, mux))
}
