package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Data     interface{} `json:"data,omitempty"`
	Error    *APIError   `json:"error,omitempty"`
	Status   string      `json:"status"`
	Metadata Metadata    `json:"metadata"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Metadata accompanies every response.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	writeEnvelope(w, status, &APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: Metadata{Timestamp: time.Now().UTC(), RequestID: GetRequestID(r.Context())},
	})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeEnvelope(w, status, &APIResponse{
		Status:   "error",
		Error:    &APIError{Code: code, Message: message},
		Metadata: Metadata{Timestamp: time.Now().UTC(), RequestID: GetRequestID(r.Context())},
	})
}

func writeEnvelope(w http.ResponseWriter, status int, resp *APIResponse) {
	body, err := json.Marshal(resp)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		http.Error(w, `{"status":"error","error":{"code":"ENCODING_ERROR","message":"failed to encode response"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Debug("Failed to write response", "error", err)
	}
}

// respondFile streams an export with a download filename.
func respondFile(w http.ResponseWriter, contentType, filename string, write func(w http.ResponseWriter) error) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := write(w); err != nil {
		slog.Error("Failed to write export", "file", filename, "error", err)
	}
}
