// Package handler exposes the catalog over HTTP: read-only reference routes
// for the operator UI and the public portal, plus admin mutations.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "solidario/pkg/domain"
	"solidario/pkg/platform/httputil"

	"solidario/internal/catalog/models"
)

// Service defines the catalog operations the handler depends on.
type Service interface {
	Programs(ctx context.Context, activeOnly bool) ([]*models.Program, error)
	Program(ctx context.Context, programID id.ProgramID) (*models.Program, error)
	CreateProgram(ctx context.Context, code, name string) (*models.Program, error)
	UpdateProgram(ctx context.Context, programID id.ProgramID, name string, active bool) (*models.Program, error)
	CreateBenefit(ctx context.Context, programID id.ProgramID, code, shortName string) (*models.Benefit, error)
	UpdateBenefit(ctx context.Context, benefitID id.BenefitID, shortName string, active bool) (*models.Benefit, error)
	Geography() []models.Department
	Institutions() []models.Institution
}

// Handler handles catalog endpoints.
type Handler struct {
	catalog Service
	logger  *slog.Logger
}

// New creates a catalog Handler.
func New(catalog Service, logger *slog.Logger) *Handler {
	return &Handler{catalog: catalog, logger: logger}
}

// Register mounts the read-only catalog routes. Only active programs and
// benefits are listed here.
func (h *Handler) Register(r chi.Router) {
	r.Get("/programas", h.handleListActive)
	r.Get("/geografia", h.handleGeography)
	r.Get("/instituciones", h.handleInstitutions)
}

// RegisterAdmin mounts the catalog management routes.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/programas", h.handleListAll)
	r.Post("/programas", h.handleCreateProgram)
	r.Get("/programas/{programID}", h.handleGetProgram)
	r.Put("/programas/{programID}", h.handleUpdateProgram)
	r.Post("/programas/{programID}/beneficios", h.handleCreateBenefit)
	r.Put("/beneficios/{benefitID}", h.handleUpdateBenefit)
}

func (h *Handler) handleListActive(w http.ResponseWriter, r *http.Request) {
	h.listPrograms(w, r, true)
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	h.listPrograms(w, r, false)
}

func (h *Handler) listPrograms(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	programs, err := h.catalog.Programs(r.Context(), activeOnly)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list programs", "error", err)
		httputil.WriteError(w, err)
		return
	}
	if programs == nil {
		programs = []*models.Program{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"programs": programs})
}

func (h *Handler) handleGeography(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"departments": h.catalog.Geography()})
}

func (h *Handler) handleInstitutions(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"institutions": h.catalog.Institutions()})
}

func (h *Handler) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	programID, err := id.ParseProgramID(chi.URLParam(r, "programID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	program, err := h.catalog.Program(r.Context(), programID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, program)
}

type createProgramRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (h *Handler) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[createProgramRequest](w, r, h.logger)
	if !ok {
		return
	}
	program, err := h.catalog.CreateProgram(r.Context(), req.Code, req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, program)
}

type updateProgramRequest struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func (h *Handler) handleUpdateProgram(w http.ResponseWriter, r *http.Request) {
	programID, err := id.ParseProgramID(chi.URLParam(r, "programID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeJSON[updateProgramRequest](w, r, h.logger)
	if !ok {
		return
	}
	program, err := h.catalog.UpdateProgram(r.Context(), programID, req.Name, req.Active)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, program)
}

type createBenefitRequest struct {
	Code      string `json:"code"`
	ShortName string `json:"short_name"`
}

func (h *Handler) handleCreateBenefit(w http.ResponseWriter, r *http.Request) {
	programID, err := id.ParseProgramID(chi.URLParam(r, "programID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeJSON[createBenefitRequest](w, r, h.logger)
	if !ok {
		return
	}
	benefit, err := h.catalog.CreateBenefit(r.Context(), programID, req.Code, req.ShortName)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, benefit)
}

type updateBenefitRequest struct {
	ShortName string `json:"short_name"`
	Active    bool   `json:"active"`
}

func (h *Handler) handleUpdateBenefit(w http.ResponseWriter, r *http.Request) {
	benefitID, err := id.ParseBenefitID(chi.URLParam(r, "benefitID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeJSON[updateBenefitRequest](w, r, h.logger)
	if !ok {
		return
	}
	benefit, err := h.catalog.UpdateBenefit(r.Context(), benefitID, req.ShortName, req.Active)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, benefit)
}
