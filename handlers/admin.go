package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/qrmenu/middlewares"
	"github.com/ray-remotestate/qrmenu/models"
	"github.com/ray-remotestate/qrmenu/services"
	"github.com/ray-remotestate/qrmenu/utils"
)

type AdminService interface {
	Login(ctx context.Context, username, password string) (*services.Session, error)
	Logout(ctx context.Context, admin string) error
	Dashboard(ctx context.Context, admin string) (*models.Dashboard, error)
}

type AdminHandler struct {
	admin        AdminService
	secureCookie bool
	logger       logrus.FieldLogger
}

func NewAdminHandler(admin AdminService, secureCookie bool, logger logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{
		admin:        admin,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		utils.WriteError(w, http.StatusBadRequest, "username and password required")
		return
	}

	session, err := h.admin.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err, "log in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middlewares.AdminCookie,
		Value:    session.Token,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		Expires:  session.ExpiresAt,
	})
	utils.WriteJSON(w, http.StatusOK, session)
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.Logout(r.Context(), middlewares.AdminFromContext(r.Context())); err != nil {
		writeServiceError(w, h.logger, err, "log out")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middlewares.AdminCookie,
		Value:    "",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		Expires:  time.Unix(0, 0), // Expire immediately
		MaxAge:   -1,
	})
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully logged out",
	})
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.admin.Dashboard(r.Context(), middlewares.AdminFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err, "load dashboard")
		return
	}
	utils.WriteJSON(w, http.StatusOK, dashboard)
}
