// Package httpserver assembles the route table and runs the listener.
package httpserver

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"media-proxy/api/internal/handle"
	"media-proxy/api/internal/media"
	"media-proxy/api/internal/media/enhance"
)

// Generators is every single-model engine the router binds. Composite flows
// (dream, music, avatar) live on the Handle itself.
type Generators struct {
	Imagen          media.Generator
	Dalle           media.Generator
	NanoBanana      media.Generator
	FluxSRPO        media.Generator
	FluxKontextDev  media.Generator
	FluxKontextEdit media.Generator
	SeedreamEdit    media.Generator
	QwenImage       media.Generator

	Veo2          media.Generator
	Veo3          media.Generator
	KlingText     media.Generator
	KlingImage    media.Generator
	PixverseText  media.Generator
	PixverseImage media.Generator
	Wan22         media.Generator
}

// StaticDirs are the local fallback directories served under the media
// mounts.
type StaticDirs struct {
	Images string
	Videos string
	Audio  string
}

const (
	imageTimeout = 3 * time.Minute
	videoTimeout = 10 * time.Minute
)

// New builds the full mux.
func New(h *handle.Handle, g Generators, static StaticDirs) http.Handler {
	mux := http.NewServeMux()

	// image generation
	mux.HandleFunc("/api/v1/iamgen/generate", h.Generate(g.Imagen, handle.GenOptions{
		Feature: "imagen", Service: "Google AI", URLField: "image_url", Timeout: imageTimeout,
	}))
	mux.HandleFunc("/api/v1/dalle/generate", h.Generate(g.Dalle, handle.GenOptions{
		Feature: "dalle", Service: "OpenAI", URLField: "image_url", Timeout: imageTimeout,
	}))
	mux.HandleFunc("/api/v1/nanobanana", h.Generate(g.NanoBanana, handle.GenOptions{
		Feature: "nanobanana", Service: "Google AI", URLField: "image_url",
		FileField: "image_files", MaxFiles: 1, Timeout: imageTimeout,
	}))
	mux.HandleFunc("/api/v1/flux-1-srpo", h.Generate(g.FluxSRPO, handle.GenOptions{
		Feature: "flux_srpo", Service: "fal.ai", URLField: "image_url", Timeout: imageTimeout,
	}))
	mux.HandleFunc("/api/v1/flux-kontext-dev", h.Generate(g.FluxKontextDev, handle.GenOptions{
		Feature: "flux_kontext_dev", Service: "fal.ai", URLField: "image_url", Timeout: imageTimeout,
	}))
	mux.HandleFunc("/api/v1/flux-kontext-edit", h.Generate(g.FluxKontextEdit, handle.GenOptions{
		Feature: "flux_kontext_edit", Service: "fal.ai", URLField: "image_url",
		FileField: "image_files", MaxFiles: 1, RequireFile: true, Timeout: imageTimeout,
	}))
	mux.HandleFunc("/api/v1/seedream-image-edit", h.Generate(g.SeedreamEdit, handle.GenOptions{
		Feature: "seedream_edit", Service: "fal.ai", URLField: "image_url",
		FileField: "image_files", MaxFiles: 4, RequireFile: true, Timeout: imageTimeout,
	}))
	mux.HandleFunc("/api/v1/qwen-image", h.Generate(g.QwenImage, handle.GenOptions{
		Feature: "qwen_image", Service: "fal.ai", URLField: "image_url", Timeout: imageTimeout,
	}))

	// video generation
	mux.HandleFunc("/api/v1/videogen/generate", h.Generate(g.Veo2, handle.GenOptions{
		Feature: "videogen", Service: "Google AI", URLField: "video_url", Timeout: videoTimeout,
	}))
	mux.HandleFunc("/api/v1/videogen3", h.Generate(g.Veo3, handle.GenOptions{
		Feature: "videogen3", Service: "Google AI", URLField: "video_url", Timeout: videoTimeout,
	}))
	mux.HandleFunc("/api/v1/kling-text-video", h.Generate(g.KlingText, handle.GenOptions{
		Feature: "kling_text", Service: "fal.ai", URLField: "video_url", Timeout: videoTimeout,
	}))
	mux.HandleFunc("/api/v1/kling-image-video", h.Generate(g.KlingImage, handle.GenOptions{
		Feature: "kling_image", Service: "fal.ai", URLField: "video_url",
		FileField: "image_files", MaxFiles: 1, RequireFile: true, Timeout: videoTimeout,
	}))
	mux.HandleFunc("/api/v1/pixverse-text-video", h.Generate(g.PixverseText, handle.GenOptions{
		Feature: "pixverse_text", Service: "fal.ai", URLField: "video_url", Timeout: videoTimeout,
	}))
	mux.HandleFunc("/api/v1/pixverse-image-video", h.Generate(g.PixverseImage, handle.GenOptions{
		Feature: "pixverse_image", Service: "fal.ai", URLField: "video_url",
		FileField: "image_files", MaxFiles: 1, RequireFile: true, Timeout: videoTimeout,
	}))
	mux.HandleFunc("/api/v1/wan22-image-video", h.Generate(g.Wan22, handle.GenOptions{
		Feature: "wan22", Service: "fal.ai", URLField: "video_url",
		FileField: "image_files", MaxFiles: 1, RequireFile: true, Timeout: videoTimeout,
	}))

	// composite flows
	mux.HandleFunc("/api/v1/dream-interpreter", h.DreamInterpreter)
	mux.HandleFunc("/api/v1/ai-avatar", h.GenerateAvatar)
	mux.HandleFunc("/api/v1/minimax-music", h.GenerateMusic)
	mux.HandleFunc("/api/v1/prompt-enhancer/enhance", h.EnhancePrompt(enhance.Image))
	mux.HandleFunc("/api/v1/prompt-enhancer/enhance-audio", h.EnhancePrompt(enhance.Audio))
	mux.HandleFunc("/api/v1/prompt-enhancer/enhance-video", h.EnhancePrompt(enhance.Video))

	// storage management
	mux.HandleFunc("/api/v1/file-management/delete-gcs-file", h.DeleteGCSFile)
	mux.HandleFunc("/api/v1/file-management/health", h.StorageHealth)
	mux.HandleFunc("/api/v1/file-management/info", h.StorageInfo)
	mux.HandleFunc("/api/v1/delete-user-data/delete-file", h.DeleteGCSFile)
	mux.HandleFunc("/api/v1/delete-user-data/delete-folder", h.DeleteUserFolder)

	mux.HandleFunc("/api/v1/history", h.GenerationHistory)

	// local fallback media
	mux.Handle("/images/", http.StripPrefix("/images/", http.FileServer(http.Dir(static.Images))))
	mux.Handle("/videos/", http.StripPrefix("/videos/", http.FileServer(http.Dir(static.Videos))))
	mux.Handle("/audio/", http.StripPrefix("/audio/", http.FileServer(http.Dir(static.Audio))))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"status": "healthy"})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, map[string]any{
			"service": "media-proxy",
			"status":  "running",
			"docs":    "/api/v1",
		})
	})

	return recoverPanic(mux)
}

// StartHTTP runs the listener until it fails.
func StartHTTP(addr string, handler http.Handler) error {
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, handler)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// recoverPanic keeps one broken request from taking the process down and
// hides the panic value from the client.
func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error":       "Internal Server Error",
					"message":     "An unexpected error occurred. Please try again later.",
					"status_code": http.StatusInternalServerError,
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
