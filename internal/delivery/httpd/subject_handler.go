package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RubachokBoss/academic-hub/internal/models"
)

func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.subjectService.ListSubjects(r.Context(), sessionFrom(r).Username)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	views := make([]models.SubjectView, 0, len(subjects))
	for _, s := range subjects {
		views = append(views, models.NewSubjectView(s))
	}

	writeSuccess(w, map[string]interface{}{
		"subjects": views,
		"total":    len(views),
	})
}

func (h *Handler) AddSubject(w http.ResponseWriter, r *http.Request) {
	var req models.AddSubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	subject, err := h.subjectService.AddSubject(r.Context(), sessionFrom(r).Username, &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccessStatus(w, http.StatusCreated, models.NewSubjectView(*subject))
}

func (h *Handler) EditSubject(w http.ResponseWriter, r *http.Request) {
	subjectID := chi.URLParam(r, "id")
	if subjectID == "" {
		writeError(w, http.StatusBadRequest, "Subject ID is required")
		return
	}

	var req models.EditSubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	subject, err := h.subjectService.EditSubject(r.Context(), sessionFrom(r).Username, subjectID, &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, models.NewSubjectView(*subject))
}

func (h *Handler) RemoveSubject(w http.ResponseWriter, r *http.Request) {
	subjectID := chi.URLParam(r, "id")
	if subjectID == "" {
		writeError(w, http.StatusBadRequest, "Subject ID is required")
		return
	}

	if err := h.subjectService.RemoveSubject(r.Context(), sessionFrom(r).Username, subjectID); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Subject removed",
	})
}

func (h *Handler) GetCredits(w http.ResponseWriter, r *http.Request) {
	owner := sessionFrom(r).Username

	total, err := h.subjectService.TotalCredits(r.Context(), owner)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, models.CreditsResponse{Owner: owner, TotalCredits: total})
}

func (h *Handler) GetGradeArchive(w http.ResponseWriter, r *http.Request) {
	grades, err := h.subjectService.GradeArchive(r.Context(), sessionFrom(r).Username)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"grades": grades,
	})
}
