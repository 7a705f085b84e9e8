package handlers

import (
	"encoding/json"
	"masterblog/blog"
	"net/http"

	"go.uber.org/zap"
)

const INVALID_BODY_MESSAGE = "Request body must be JSON"

func (h *HTTPHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	var data blog.PostInput
	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		h.Logger.Info("Failed to decode post data while creating post", zap.Error(err), requestIdField(r))
		h.writeError(w, http.StatusBadRequest, INVALID_BODY_MESSAGE)
		return
	}

	post, err := h.Blog.Create(r.Context(), data)
	if err != nil {
		h.handleError(w, r, "creating post", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, post)
}
