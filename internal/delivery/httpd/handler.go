package httpd

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/RubachokBoss/academic-hub/internal/service"
	"github.com/RubachokBoss/academic-hub/internal/session"
)

type Handler struct {
	authService      service.AuthService
	subjectService   service.SubjectService
	timerService     service.TimerService
	noteService      service.NoteService
	dashboardService service.DashboardService
	adminService     service.AdminService
	sessions         *session.Manager
	cookie           CookieConfig
	logger           zerolog.Logger
}

type CookieConfig struct {
	Name   string
	Secure bool
}

func NewHandler(
	authService service.AuthService,
	subjectService service.SubjectService,
	timerService service.TimerService,
	noteService service.NoteService,
	dashboardService service.DashboardService,
	adminService service.AdminService,
	sessions *session.Manager,
	cookie CookieConfig,
	logger zerolog.Logger,
) *Handler {
	if cookie.Name == "" {
		cookie.Name = defaultCookieName
	}
	return &Handler{
		authService:      authService,
		subjectService:   subjectService,
		timerService:     timerService,
		noteService:      noteService,
		dashboardService: dashboardService,
		adminService:     adminService,
		sessions:         sessions,
		cookie:           cookie,
		logger:           logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.With(h.requireSession).Post("/logout", h.Logout)
		})

		api.Group(func(r chi.Router) {
			r.Use(h.requireSession)

			r.Get("/session", h.GetSession)
			r.Get("/dashboard", h.GetDashboard)

			r.Route("/subjects", func(r chi.Router) {
				r.Get("/", h.ListSubjects)
				r.Post("/", h.AddSubject)
				r.Get("/credits", h.GetCredits)
				r.Get("/grades", h.GetGradeArchive)
				r.Put("/{id}", h.EditSubject)
				r.Delete("/{id}", h.RemoveSubject)
			})

			r.Route("/timer", func(r chi.Router) {
				r.Get("/", h.GetTimer)
				r.Post("/start", h.StartTimer)
				r.Post("/pause", h.PauseTimer)
				r.Post("/save", h.SaveTimer)
			})

			r.Route("/updates", func(r chi.Router) {
				r.Get("/", h.ListUpdates)
				r.Post("/", h.PostUpdate)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Get("/users", h.ListUsers)
				r.Post("/backup", h.Backup)
			})
		})
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "academic-hub",
		"sessions":  h.sessions.Count(),
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, response)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeSuccessStatus(w, http.StatusOK, data)
}

func writeSuccessStatus(w http.ResponseWriter, status int, data interface{}) {
	response := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	writeJSON(w, status, response)
}

// handleServiceError maps typed service errors onto status codes; anything
// unrecognised is logged and reported as a 500.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrSubjectNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateUser),
		errors.Is(err, session.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrBackupDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		requestLogger(r, h.logger).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
