package handle

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/media"
	"media-proxy/api/internal/media/dream"
	"media-proxy/api/internal/media/enhance"
	"media-proxy/api/internal/storage"
	"media-proxy/api/internal/store"
	"media-proxy/api/internal/validate"
)

const maxUploadMemory = 64 << 20

// History is what the routes need from the generation log.
// *store.HistoryRepo satisfies it; tests substitute a fake.
type History interface {
	Record(ctx context.Context, e store.HistoryEntry)
	Recent(ctx context.Context, feature string, limit int) ([]store.HistoryEntry, error)
}

// Handle holds the shared services. Per-route generators are bound in the
// router via Generate; only composite flows get their own field.
type Handle struct {
	Dream    *dream.Service
	Enhancer *enhance.Service
	Music    media.Generator
	Avatar   media.Generator

	GCS     *storage.GCS // nil when no bucket configured
	History History      // nil when no database configured
}

func New(dr *dream.Service, enh *enhance.Service, music, avatar media.Generator, gcs *storage.GCS, history *store.HistoryRepo) *Handle {
	h := &Handle{
		Dream:    dr,
		Enhancer: enh,
		Music:    music,
		Avatar:   avatar,
		GCS:      gcs,
	}
	// assign only a live repo so the nil check stays meaningful
	if history != nil {
		h.History = history
	}
	return h
}

// recordHistory logs one completed generation when history is configured.
func (h *Handle) recordHistory(ctx context.Context, e store.HistoryEntry) {
	if h.History == nil {
		return
	}
	h.History.Record(ctx, e)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeValidation maps a validator failure to the common 400 body.
func writeValidation(w http.ResponseWriter, ve *validate.Error) {
	resp := apperr.Response{
		Error:      ve.Category,
		Message:    ve.Message,
		StatusCode: http.StatusBadRequest,
		Field:      ve.Field,
	}
	if len(ve.Details) > 0 {
		resp.Details = map[string]any{"validation_errors": ve.Details}
	}
	writeJSON(w, http.StatusBadRequest, &resp)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, &apperr.Response{
		Error:      "Validation Error",
		Message:    msg,
		StatusCode: http.StatusBadRequest,
	})
}

// parseRequest reads prompt, style and shape from either a JSON body or a
// multipart form. fileField names the upload field to collect; empty means
// the route takes no files.
func parseRequest(r *http.Request, fileField string) (media.Request, *validate.Error) {
	req := media.Request{
		Style: r.URL.Query().Get("style"),
		Shape: r.URL.Query().Get("shape"),
		Extra: map[string]string{},
	}
	if req.Style == "" {
		req.Style = "Photo"
	}
	if req.Shape == "" {
		req.Shape = "square"
	}

	ct := r.Header.Get("Content-Type")
	if fileField != "" && isMultipart(ct) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return req, &validate.Error{Category: "Validation Error", Message: "invalid multipart form: " + err.Error()}
		}
		req.Prompt = r.FormValue("prompt")
		if v := r.FormValue("style"); v != "" {
			req.Style = v
		}
		if v := r.FormValue("shape"); v != "" {
			req.Shape = v
		}
		files, verr := readFiles(r, fileField)
		if verr != nil {
			return req, verr
		}
		req.Files = files
		return req, nil
	}

	var body struct {
		Prompt string `json:"prompt"`
		Style  string `json:"style"`
		Shape  string `json:"shape"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return req, &validate.Error{Category: "Validation Error", Message: "invalid JSON body: " + err.Error()}
	}
	req.Prompt = body.Prompt
	if body.Style != "" {
		req.Style = body.Style
	}
	if body.Shape != "" {
		req.Shape = body.Shape
	}
	return req, nil
}

func isMultipart(contentType string) bool {
	return len(contentType) >= 19 && contentType[:19] == "multipart/form-data"
}

// readFiles collects uploads from field, accepting both a repeated field and
// its singular form ("image_files" and "image_file").
func readFiles(r *http.Request, field string) ([]media.Upload, *validate.Error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 && field == "image_files" {
		headers = r.MultipartForm.File["image_file"]
	}
	var out []media.Upload
	for _, fh := range headers {
		up, verr := readUpload(fh)
		if verr != nil {
			return nil, verr
		}
		out = append(out, up)
	}
	return out, nil
}

func readUpload(fh *multipart.FileHeader) (media.Upload, *validate.Error) {
	f, err := fh.Open()
	if err != nil {
		return media.Upload{}, &validate.Error{Category: "Validation Error", Message: "cannot read uploaded file: " + err.Error()}
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return media.Upload{}, &validate.Error{Category: "Validation Error", Message: "cannot read uploaded file: " + err.Error()}
	}
	return media.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func validateFiles(files []media.Upload) []validate.File {
	out := make([]validate.File, len(files))
	for i, f := range files {
		out[i] = validate.File{Filename: f.Filename, ContentType: f.ContentType}
	}
	return out
}
