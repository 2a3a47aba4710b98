package handle

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/validate"
)

// DeleteGCSFile handles DELETE /api/v1/file-management/delete-gcs-file.
// Missing objects come back in the result body, not as an error status.
func (h *Handle) DeleteGCSFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete && r.Method != http.MethodPost {
		http.Error(w, "DELETE only", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		FileURL string `json:"file_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if verr := validate.RequiredFields(map[string]string{"file_url": body.FileURL}, []string{"file_url"}); verr != nil {
		writeValidation(w, verr)
		return
	}
	if h.GCS == nil {
		writeJSON(w, http.StatusServiceUnavailable, &apperr.Response{
			Error:      "Service Unavailable",
			Message:    "Cloud storage is not configured.",
			StatusCode: http.StatusServiceUnavailable,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	res, err := h.GCS.Delete(ctx, body.FileURL)
	if err != nil {
		resp := apperr.Classify(err, "Google Cloud Storage", "file deletion")
		writeJSON(w, resp.StatusCode, resp)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// DeleteUserFolder handles DELETE /api/v1/delete-user-data/delete-folder:
// batch-deletes every object under the folder URL's prefix.
func (h *Handle) DeleteUserFolder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete && r.Method != http.MethodPost {
		http.Error(w, "DELETE only", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		FolderURL string `json:"folder_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if verr := validate.RequiredFields(map[string]string{"folder_url": body.FolderURL}, []string{"folder_url"}); verr != nil {
		writeValidation(w, verr)
		return
	}
	if h.GCS == nil {
		writeJSON(w, http.StatusServiceUnavailable, &apperr.Response{
			Error:      "Service Unavailable",
			Message:    "Cloud storage is not configured.",
			StatusCode: http.StatusServiceUnavailable,
		})
		return
	}

	// folders can hold many objects; give the batch more room than a
	// single delete
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	res, err := h.GCS.DeleteFolder(ctx, body.FolderURL)
	if err != nil {
		resp := apperr.Classify(err, "Google Cloud Storage", "folder deletion")
		writeJSON(w, resp.StatusCode, resp)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// StorageHealth handles GET /api/v1/file-management/health.
func (h *Handle) StorageHealth(w http.ResponseWriter, r *http.Request) {
	if h.GCS == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "degraded",
			"storage": "local only",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.GCS.Health(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
			"bucket": h.GCS.Bucket(),
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"bucket": h.GCS.Bucket(),
	})
}

// StorageInfo handles GET /api/v1/file-management/info.
func (h *Handle) StorageInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]any{
		"cloud_storage_enabled": h.GCS != nil,
		"supported_url_formats": []string{
			"gs://bucket/path",
			"https://storage.googleapis.com/bucket/path",
			"https://storage.cloud.google.com/bucket/path",
		},
	}
	if h.GCS != nil {
		info["bucket_name"] = h.GCS.Bucket()
	}
	writeJSON(w, http.StatusOK, info)
}
