package handlers

import (
	"encoding/json"
	"masterblog/blog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func (h *HTTPHandler) HandleUpdatePost(w http.ResponseWriter, r *http.Request) {
	postId, ok := pathPostId(w, r)
	if !ok {
		return
	}

	// Only an empty or non-object body is rejected. Unknown keys are ignored
	// and null values leave the field unchanged.
	var fields map[string]json.RawMessage
	err := json.NewDecoder(r.Body).Decode(&fields)
	if err != nil || len(fields) == 0 {
		h.Logger.Info("Failed to decode post data while updating post", zap.Error(err), requestIdField(r))
		h.writeError(w, http.StatusBadRequest, INVALID_BODY_MESSAGE)
		return
	}
	var data blog.PostInput
	if err := decodeFields(fields, &data); err != nil {
		h.Logger.Info("Invalid post data while updating post", zap.Error(err), requestIdField(r))
		h.writeError(w, http.StatusBadRequest, INVALID_BODY_MESSAGE)
		return
	}

	post, err := h.Blog.Update(r.Context(), postId, data)
	if err != nil {
		h.handleError(w, r, "updating post", err)
		return
	}
	h.writeJSON(w, http.StatusOK, post)
}

func decodeFields(fields map[string]json.RawMessage, v interface{}) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// pathPostId reads the {postId} route variable. The route only matches
// digits, so a failure here means the id overflowed.
func pathPostId(w http.ResponseWriter, r *http.Request) (int, bool) {
	postId, err := strconv.Atoi(mux.Vars(r)["postId"])
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return postId, true
}
