package httpd

import (
	"net/http"

	"github.com/RubachokBoss/academic-hub/internal/models"
)

func (h *Handler) ListUpdates(w http.ResponseWriter, r *http.Request) {
	updates, err := h.noteService.ListUpdates(r.Context(), sessionFrom(r).Username)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"updates": updates,
		"total":   len(updates),
	})
}

func (h *Handler) PostUpdate(w http.ResponseWriter, r *http.Request) {
	var req models.PostUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.noteService.PostUpdate(r.Context(), sessionFrom(r).Username, &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccessStatus(w, http.StatusCreated, entry)
}
