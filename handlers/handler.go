package handlers

import (
	"encoding/json"
	"errors"
	"masterblog/blog"
	"masterblog/storage"
	"net/http"

	"go.uber.org/zap"
)

const INTERNAL_ERROR_MESSAGE = "Internal server error"

type HTTPHandler struct {
	Blog   *blog.Service
	Logger *zap.Logger
	// Docs is the OpenAPI document rendered as JSON.
	Docs []byte
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("pong"))
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	rawResponse, err := json.Marshal(v)
	if err != nil {
		h.Logger.Error("Failed to dump response to json", zap.Error(err))
		http.Error(w, INTERNAL_ERROR_MESSAGE, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(rawResponse); err != nil {
		h.Logger.Warn("Failed to write response", zap.Error(err))
	}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, ErrorResponse{Error: message})
}

// handleError maps an operation error onto a status code. Client errors carry
// their own message; everything else is reported as an internal error.
func (h *HTTPHandler) handleError(w http.ResponseWriter, r *http.Request, action string, err error) {
	message := INTERNAL_ERROR_MESSAGE
	var blogErr *blog.Error
	if errors.As(err, &blogErr) {
		message = blogErr.Message
	}

	switch {
	case errors.Is(err, storage.NotFoundError):
		h.Logger.Info("Not Found error while "+action, zap.Error(err), requestIdField(r))
		h.writeError(w, http.StatusNotFound, message)
	case errors.Is(err, storage.ClientError):
		h.Logger.Info("Client error while "+action, zap.Error(err), requestIdField(r))
		h.writeError(w, http.StatusBadRequest, message)
	default:
		h.Logger.Error("Internal error while "+action, zap.Error(err), requestIdField(r))
		h.writeError(w, http.StatusInternalServerError, INTERNAL_ERROR_MESSAGE)
	}
}
