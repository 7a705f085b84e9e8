package handlers

import (
	"masterblog/blog"
	"net/http"
)

func (h *HTTPHandler) HandleGetPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	direction := query.Get("direction")
	if direction == "" {
		direction = blog.SortAsc
	}

	posts, err := h.Blog.List(r.Context(), query.Get("sort"), direction)
	if err != nil {
		h.handleError(w, r, "listing posts", err)
		return
	}
	h.writeJSON(w, http.StatusOK, posts)
}
