package httpd

import (
	"errors"
	"io"
	"net/http"

	"github.com/RubachokBoss/academic-hub/internal/models"
)

func (h *Handler) GetTimer(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.timerService.Status(sessionFrom(r)))
}

func (h *Handler) StartTimer(w http.ResponseWriter, r *http.Request) {
	snap, err := h.timerService.Start(r.Context(), sessionFrom(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, snap)
}

func (h *Handler) PauseTimer(w http.ResponseWriter, r *http.Request) {
	snap, err := h.timerService.Pause(r.Context(), sessionFrom(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, snap)
}

// SaveTimer accepts an empty body, which logs the session under "None".
func (h *Handler) SaveTimer(w http.ResponseWriter, r *http.Request) {
	var req models.SaveSessionRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess := sessionFrom(r)
	entry, err := h.timerService.Save(r.Context(), sess, &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccessStatus(w, http.StatusCreated, map[string]interface{}{
		"entry": entry,
		"timer": h.timerService.Status(sess),
	})
}
