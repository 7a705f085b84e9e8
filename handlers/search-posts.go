package handlers

import (
	"masterblog/blog"
	"net/http"
)

func (h *HTTPHandler) HandleSearchPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	posts, err := h.Blog.Search(r.Context(), blog.SearchQuery{
		Title:   query.Get("title"),
		Content: query.Get("content"),
		Author:  query.Get("author"),
		Date:    query.Get("date"),
	})
	if err != nil {
		h.handleError(w, r, "searching posts", err)
		return
	}
	h.writeJSON(w, http.StatusOK, posts)
}
