package httpd

import (
	"net/http"

	"github.com/RubachokBoss/academic-hub/internal/models"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccessStatus(w, http.StatusCreated, map[string]interface{}{
		"username": user.Username,
		"message":  "Account created, please sign in",
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := h.authService.SignIn(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeSuccess(w, models.LoginResponse{
		Token:    sess.Token,
		Username: sess.Username,
		IsAdmin:  sess.IsAdmin,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	h.authService.SignOut(r.Context(), sess.Token)

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
	})

	writeSuccess(w, map[string]interface{}{
		"message": "Signed out",
	})
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, sessionFrom(r).State())
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardService.Dashboard(r.Context(), sessionFrom(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, dashboard)
}
