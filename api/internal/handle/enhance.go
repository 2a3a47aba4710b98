package handle

import (
	"context"
	"net/http"
	"time"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/media/enhance"
	"media-proxy/api/internal/validate"
)

// EnhancePrompt handles the prompt-enhancer routes; the modality picks the
// system prompt (image, audio or video).
func (h *Handle) EnhancePrompt(modality enhance.Modality) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancel()

		enhanced, err := h.Enhancer.Enhance(ctx, modality, req.Prompt)
		if err != nil {
			resp := apperr.Classify(err, "OpenAI", "prompt enhancement")
			writeJSON(w, resp.StatusCode, resp)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":          "success",
			"success_message": "Prompt enhanced successfully",
			"original_prompt": req.Prompt,
			"enhanced_prompt": enhanced,
			"modality":        string(modality),
		})
	}
}
