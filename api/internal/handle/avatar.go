package handle

import (
	"context"
	"net/http"
	"time"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/media"
	"media-proxy/api/internal/store"
	"media-proxy/api/internal/validate"
)

var avatarAudioTypes = []string{"audio/mpeg", "audio/mp3", "audio/wav", "audio/ogg", "audio/x-m4a", "audio/mp4"}

// GenerateAvatar handles POST /api/v1/ai-avatar: a face image plus a speech
// clip in a multipart form, a talking-head video out.
func (h *Handle) GenerateAvatar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeBadRequest(w, "invalid multipart form: "+err.Error())
		return
	}
	prompt := r.FormValue("prompt")
	if verr := validate.RequiredFields(map[string]string{"prompt": prompt}, []string{"prompt"}); verr != nil {
		writeValidation(w, verr)
		return
	}

	img, verr := requireUpload(r, "image_file")
	if verr != nil {
		writeValidation(w, verr)
		return
	}
	audio, verr := requireUpload(r, "audio_file")
	if verr != nil {
		writeValidation(w, verr)
		return
	}
	if verr := validate.FileTypes([]validate.File{{Filename: img.Filename, ContentType: img.ContentType}}, imageTypes, "image_file"); verr != nil {
		writeValidation(w, verr)
		return
	}
	if verr := validate.FileTypes([]validate.File{{Filename: audio.Filename, ContentType: audio.ContentType}}, avatarAudioTypes, "audio_file"); verr != nil {
		writeValidation(w, verr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	req := media.Request{Prompt: prompt, Files: []media.Upload{img, audio}}
	res, err := h.Avatar.Generate(ctx, req)
	if err != nil {
		resp := apperr.Classify(err, "fal.ai", "avatar generation")
		writeJSON(w, resp.StatusCode, resp)
		return
	}

	h.recordHistory(ctx, store.HistoryEntry{
		Feature:  "avatar",
		Provider: res.Provider,
		Model:    res.Model,
		Prompt:   prompt,
		MediaURL: res.MediaURL,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "success",
		"success_message": "Video generated successfully",
		"video_url":       res.MediaURL,
		"filename":        res.Filename,
		"provider":        res.Provider,
		"model":           res.Model,
	})
}

func requireUpload(r *http.Request, field string) (media.Upload, *validate.Error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return media.Upload{}, &validate.Error{
			Category: "Required Fields Validation Error",
			Message:  "Missing required file: " + field,
			Field:    field,
		}
	}
	return readUpload(r.MultipartForm.File[field][0])
}
