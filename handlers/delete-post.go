package handlers

import (
	"net/http"
)

func (h *HTTPHandler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	postId, ok := pathPostId(w, r)
	if !ok {
		return
	}

	message, err := h.Blog.Delete(r.Context(), postId)
	if err != nil {
		h.handleError(w, r, "deleting post", err)
		return
	}
	h.writeJSON(w, http.StatusOK, MessageResponse{Message: message})
}
