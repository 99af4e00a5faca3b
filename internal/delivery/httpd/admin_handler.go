package httpd

import (
	"net/http"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context(), sessionFrom(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, users)
}

func (h *Handler) Backup(w http.ResponseWriter, r *http.Request) {
	result, err := h.adminService.Backup(r.Context(), sessionFrom(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, result)
}
