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

// DreamInterpreter handles POST /api/v1/dream-interpreter: reads the dream,
// renders it, returns both.
func (h *Handle) DreamInterpreter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	req, verr := parseRequest(r, "")
	if verr != nil {
		writeValidation(w, verr)
		return
	}
	if verr := validate.RequiredFields(map[string]string{"prompt": req.Prompt}, []string{"prompt"}); verr != nil {
		writeValidation(w, verr)
		return
	}
	if verr := validate.ParameterChoice(req.Style, media.Styles, "style"); verr != nil {
		writeValidation(w, verr)
		return
	}
	if verr := validate.ParameterChoice(req.Shape, media.Shapes, "shape"); verr != nil {
		writeValidation(w, verr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Minute)
	defer cancel()

	out, err := h.Dream.Interpret(ctx, req)
	if err != nil {
		resp := apperr.Classify(err, "Google AI", "dream visualization")
		writeJSON(w, resp.StatusCode, resp)
		return
	}

	h.recordHistory(ctx, store.HistoryEntry{
		Feature:  "dream",
		Provider: "Google AI",
		Prompt:   req.Prompt,
		Shape:    req.Shape,
		MediaURL: out.ImageURL,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"status":               "success",
		"success_message":      "Dream interpreted and visualized successfully",
		"image_url":            out.ImageURL,
		"dream_interpretation": out.Interpretation,
		"filename":             out.Filename,
	})
}
