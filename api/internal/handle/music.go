package handle

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/media"
	"media-proxy/api/internal/media/enhance"
	"media-proxy/api/internal/store"
	"media-proxy/api/internal/util"
	"media-proxy/api/internal/validate"
)

// maxVerseLen is the lyrics limit the music model accepts.
const maxVerseLen = 300

// GenerateMusic handles POST /api/v1/minimax-music. The verses and optional
// style description go through the enhancer first; enhancement failures fall
// back to the raw input, the generation itself must still succeed.
func (h *Handle) GenerateMusic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Prompt string `json:"prompt"`
		Style  string `json:"style"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if verr := validate.RequiredFields(map[string]string{"prompt": body.Prompt}, []string{"prompt"}); verr != nil {
		writeValidation(w, verr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	verses, err := h.Enhancer.Enhance(ctx, enhance.Audio, body.Prompt)
	if err != nil {
		log.Printf("verse enhancement failed, using raw prompt: %v", err)
		verses = body.Prompt
	}
	verses = util.Truncate(verses, maxVerseLen)

	style := body.Style
	if style != "" {
		if enhanced, err := h.Enhancer.Enhance(ctx, enhance.Audio, style); err == nil {
			style = util.Truncate(enhanced, maxVerseLen)
		}
	}

	req := media.Request{Prompt: verses, Extra: map[string]string{"lyrics_prompt": style}}
	res, err := h.Music.Generate(ctx, req)
	if err != nil {
		resp := apperr.Classify(err, "fal.ai", "music generation")
		writeJSON(w, resp.StatusCode, resp)
		return
	}

	h.recordHistory(ctx, store.HistoryEntry{
		Feature:  "minimax_music",
		Provider: res.Provider,
		Model:    res.Model,
		Prompt:   body.Prompt,
		MediaURL: res.MediaURL,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "success",
		"success_message": "Audio generated successfully",
		"audio_url":       res.MediaURL,
		"filename":        res.Filename,
		"provider":        res.Provider,
		"model":           res.Model,
		"verses":          verses,
	})
}
