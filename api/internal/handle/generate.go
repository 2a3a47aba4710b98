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

var imageTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

// GenOptions binds one generator to one route.
type GenOptions struct {
	// Feature names the endpoint in filenames, history and classifier
	// operations, e.g. "flux_srpo".
	Feature string

	// Service is the provider name used in error messages ("fal.ai",
	// "OpenAI", "Google AI").
	Service string

	// URLField is the response key carrying the result: image_url,
	// video_url or audio_url.
	URLField string

	// FileField, when set, names the multipart upload field the route
	// accepts. MaxFiles caps how many; RequireFile rejects requests
	// without one.
	FileField   string
	MaxFiles    int
	RequireFile bool

	// Timeout bounds the whole generation including provider polling.
	// Zero means 3 minutes.
	Timeout time.Duration
}

// Generate is the one handler behind every single-generator route. The
// differences between endpoints live in the Generator and GenOptions, not in
// per-endpoint handler code.
func (h *Handle) Generate(gen media.Generator, opt GenOptions) http.HandlerFunc {
	if opt.Timeout == 0 {
		opt.Timeout = 3 * time.Minute
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		req, verr := parseRequest(r, opt.FileField)
		if verr != nil {
			writeValidation(w, verr)
			return
		}
		if verr := h.checkRequest(&req, opt); verr != nil {
			writeValidation(w, verr)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), opt.Timeout)
		defer cancel()

		res, err := gen.Generate(ctx, req)
		if err != nil {
			resp := apperr.Classify(err, opt.Service, opt.Feature)
			writeJSON(w, resp.StatusCode, resp)
			return
		}

		h.record(ctx, opt.Feature, req, res)
		writeJSON(w, http.StatusOK, successBody(opt.URLField, req, res))
	}
}

func (h *Handle) checkRequest(req *media.Request, opt GenOptions) *validate.Error {
	if verr := validate.RequiredFields(map[string]string{"prompt": req.Prompt}, []string{"prompt"}); verr != nil {
		return verr
	}
	if verr := validate.ParameterChoice(req.Style, media.Styles, "style"); verr != nil {
		return verr
	}
	if verr := validate.ParameterChoice(req.Shape, media.Shapes, "shape"); verr != nil {
		return verr
	}
	if opt.FileField != "" {
		files := validateFiles(req.Files)
		if opt.RequireFile && len(files) == 0 {
			return &validate.Error{
				Category: "Required Fields Validation Error",
				Message:  "An image file is required for this endpoint",
				Field:    opt.FileField,
			}
		}
		if verr := validate.FileTypes(files, imageTypes, opt.FileField); verr != nil {
			return verr
		}
		if opt.MaxFiles > 0 {
			if verr := validate.FileCount(files, opt.MaxFiles, opt.FileField); verr != nil {
				return verr
			}
		}
	}
	return nil
}

func (h *Handle) record(ctx context.Context, feature string, req media.Request, res media.Result) {
	h.recordHistory(ctx, store.HistoryEntry{
		Feature:  feature,
		Provider: res.Provider,
		Model:    res.Model,
		Prompt:   req.Prompt,
		Style:    req.Style,
		Shape:    req.Shape,
		MediaURL: res.MediaURL,
	})
}

func successBody(urlField string, req media.Request, res media.Result) map[string]any {
	body := map[string]any{
		"status":          "success",
		"success_message": successMessage(res.Kind),
		urlField:          res.MediaURL,
		"filename":        res.Filename,
		"provider":        res.Provider,
		"model":           res.Model,
		"style":           req.Style,
		"shape":           req.Shape,
	}
	return body
}

func successMessage(kind media.Kind) string {
	switch kind {
	case media.KindVideo:
		return "Video generated successfully"
	case media.KindAudio:
		return "Audio generated successfully"
	default:
		return "Image generated successfully"
	}
}
