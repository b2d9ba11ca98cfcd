// Package handler exposes staff authentication over HTTP: login, the
// current-user endpoint and admin staff management.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "solidario/pkg/domain"
	dErrors "solidario/pkg/domain-errors"
	"solidario/pkg/platform/httputil"

	"solidario/internal/auth/models"
	"solidario/internal/platform/middleware"
)

// Service defines the auth operations the handler depends on.
type Service interface {
	Login(ctx context.Context, username, password string) (string, *models.StaffUser, error)
	Me(ctx context.Context, userID id.UserID) (*models.StaffUser, error)
	ListStaff(ctx context.Context) ([]*models.StaffUser, error)
	CreateStaff(ctx context.Context, actorID id.UserID, username, fullName, password, role string) (*models.StaffUser, error)
	SetActive(ctx context.Context, actorID, userID id.UserID, active bool) (*models.StaffUser, error)
}

// Handler handles authentication endpoints.
type Handler struct {
	auth   Service
	logger *slog.Logger
}

// New creates an auth Handler.
func New(auth Service, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, logger: logger}
}

// RegisterPublic mounts the unauthenticated login route.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/login", h.handleLogin)
}

// Register mounts the authenticated self-service route.
func (h *Handler) Register(r chi.Router) {
	r.Get("/me", h.handleMe)
}

// RegisterAdmin mounts staff management. The router must already enforce
// the admin role.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/", h.handleListStaff)
	r.Post("/", h.handleCreateStaff)
	r.Put("/{userID}/active", h.handleSetActive)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string            `json:"token"`
	User  *models.StaffUser `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[loginRequest](w, r, h.logger)
	if !ok {
		return
	}
	token, user, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.actorID(w, r)
	if !ok {
		return
	}
	user, err := h.auth.Me(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleListStaff(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListStaff(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list staff", "error", err)
		httputil.WriteError(w, err)
		return
	}
	if users == nil {
		users = []*models.StaffUser{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

type createStaffRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) handleCreateStaff(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[createStaffRequest](w, r, h.logger)
	if !ok {
		return
	}
	user, err := h.auth.CreateStaff(r.Context(), actorID, req.Username, req.FullName, req.Password, req.Role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, user)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h *Handler) handleSetActive(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeJSON[setActiveRequest](w, r, h.logger)
	if !ok {
		return
	}
	user, err := h.auth.SetActive(r.Context(), actorID, userID, req.Active)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) actorID(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	actorID, err := id.ParseUserID(middleware.GetUserID(r.Context()))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "user id missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.UserID{}, false
	}
	return actorID, true
}
