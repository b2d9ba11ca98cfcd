// Package handler exposes the delivery-registration workflow over HTTP. Every
// endpoint operates on the authenticated operator's own session; admin
// listing endpoints sit alongside under the same mount.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	id "solidario/pkg/domain"
	dErrors "solidario/pkg/domain-errors"
	"solidario/pkg/platform/httputil"

	"solidario/internal/delivery/models"
	"solidario/internal/delivery/service"
	"solidario/internal/delivery/store"
	"solidario/internal/platform/middleware"
)

// Service defines the workflow operations the handler depends on.
type Service interface {
	Session(ctx context.Context, operatorID id.UserID) (*models.Session, error)
	EditIdentifier(ctx context.Context, operatorID id.UserID, input string) (*models.Session, error)
	Confirm(ctx context.Context, operatorID id.UserID) (*models.Session, error)
	SetField(ctx context.Context, operatorID id.UserID, field, value string) (*models.Session, error)
	ToggleLock(ctx context.Context, operatorID id.UserID, field string, locked bool) (*models.Session, error)
	Reset(ctx context.Context, operatorID id.UserID) (*models.Session, error)
	Summary(ctx context.Context, operatorID id.UserID) (*service.ConfirmationSummary, error)
	Submit(ctx context.Context, operatorID id.UserID) (*models.DeliveryRecord, error)
	List(ctx context.Context, filter store.ListFilter) ([]*models.DeliveryRecord, error)
	Find(ctx context.Context, deliveryID id.DeliveryID) (*models.DeliveryRecord, error)
	Void(ctx context.Context, actorID id.UserID, deliveryID id.DeliveryID) error
}

// Handler handles delivery-registration endpoints.
type Handler struct {
	workflow Service
	logger   *slog.Logger
}

// New creates a delivery Handler.
func New(workflow Service, logger *slog.Logger) *Handler {
	return &Handler{workflow: workflow, logger: logger}
}

// Register mounts the workflow routes. The router must already enforce
// authentication; Void additionally requires the admin role at the router
// level.
func (h *Handler) Register(r chi.Router) {
	r.Get("/session", h.handleGetSession)
	r.Put("/session/identifier", h.handleEditIdentifier)
	r.Post("/session/confirm", h.handleConfirm)
	r.Put("/session/fields/{field}", h.handleSetField)
	r.Put("/session/locks/{field}", h.handleToggleLock)
	r.Post("/session/reset", h.handleReset)
	r.Get("/session/summary", h.handleSummary)
	r.Post("/session/submit", h.handleSubmit)

	r.Get("/", h.handleList)
	r.Get("/{deliveryID}", h.handleFind)
}

// RegisterAdmin mounts the admin-only mutations.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/{deliveryID}/void", h.handleVoid)
}

// sessionResponse is the wire form of a registration session.
type sessionResponse struct {
	State       string            `json:"state"`
	Identifier  string            `json:"identifier"`
	DisplayName string            `json:"display_name,omitempty"`
	DisplaySex  string            `json:"display_sex,omitempty"`
	Message     string            `json:"message,omitempty"`
	Fields      map[string]string `json:"fields"`
	Known       map[string]bool   `json:"known"`
	Locks       map[string]bool   `json:"locks"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

func toSessionResponse(sess *models.Session) *sessionResponse {
	return &sessionResponse{
		State:       string(sess.State),
		Identifier:  sess.Identifier,
		DisplayName: sess.DisplayName,
		DisplaySex:  sess.DisplaySex,
		Message:     sess.Message,
		Fields:      sess.Fields,
		Known:       sess.Known,
		Locks:       sess.Locks,
		ExpiresAt:   sess.ExpiresAt,
	}
}

func (h *Handler) operatorID(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	raw := middleware.GetUserID(r.Context())
	operatorID, err := id.ParseUserID(raw)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "user id missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.UserID{}, false
	}
	return operatorID, true
}

func (h *Handler) respondSession(w http.ResponseWriter, sess *models.Session, err error) {
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := h.operatorID(w, r)
	if !ok {
		return
	}
	sess, err := h.workflow.Session(r.Context(), operatorID)
	h.respondSession(w, sess, err)
}

type valueRequest struct {
	Value string `json:"value"`
}

func (h *Handler) handleEditIdentifier(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := h.operatorID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[valueRequest](w, r, h.logger)
	if !ok {
		return
	}
	sess, err := h.workflow.EditIdentifier(r.Context(), operatorID, req.Value)
	h.respondSession(w, sess, err)
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := h.operatorID(w, r)
	if !ok {
		return
	}
	sess, err := h.workflow.Confirm(r.Context(), operatorID)
	h.respondSession(w, sess, err)
}

func (h *Handler) handleSetField(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := h.operatorID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[valueRequest](w, r, h.logger)
	if !ok {
		return
	}
	field := chi.URLParam(r, "field")
	sess, err := h.workflow.SetField(r.Context(), operatorID, field, req.Value)
	h.respondSession(w, sess, err)
}

type lockRequest struct {
	Locked bool `json:"locked"`
}

func (h *Handler) handleToggleLock(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := h.operatorID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[lockRequest](w, r, h.logger)
	if !ok {
		return
	}
	field := chi.URLParam(r, "field")
	sess, err := h.workflow.ToggleLock(r.Context(), operatorID, field, req.Locked)
	h.respondSession(w, sess, err)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := h.operatorID(w, r)
	if !ok {
		return
	}
	sess, err := h.workflow.Reset(r.Context(), operatorID)
	h.respondSession(w, sess, err)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := h.operatorID(w, r)
	if !ok {
		return
	}
	summary, err := h.workflow.Summary(r.Context(), operatorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := h.operatorID(w, r)
	if !ok {
		return
	}
	record, err := h.workflow.Submit(r.Context(), operatorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	records, err := h.workflow.List(r.Context(), filter)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list deliveries", "error", err)
		httputil.WriteError(w, err)
		return
	}
	if records == nil {
		records = []*models.DeliveryRecord{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"deliveries": records})
}

func (h *Handler) handleFind(w http.ResponseWriter, r *http.Request) {
	deliveryID, err := id.ParseDeliveryID(chi.URLParam(r, "deliveryID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	record, err := h.workflow.Find(r.Context(), deliveryID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleVoid(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.operatorID(w, r)
	if !ok {
		return
	}
	deliveryID, err := id.ParseDeliveryID(chi.URLParam(r, "deliveryID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.workflow.Void(r.Context(), actorID, deliveryID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": models.StatusVoided})
}

func parseListFilter(r *http.Request) (store.ListFilter, error) {
	q := r.URL.Query()
	filter := store.ListFilter{
		CUI:    q.Get("cui"),
		Status: q.Get("status"),
		Limit:  50,
	}

	if raw := q.Get("program_id"); raw != "" {
		programID, err := id.ParseProgramID(raw)
		if err != nil {
			return store.ListFilter{}, err
		}
		filter.ProgramID = programID
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 500 {
			return store.ListFilter{}, dErrors.New(dErrors.CodeInvalidInput, "invalid limit")
		}
		filter.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return store.ListFilter{}, dErrors.New(dErrors.CodeInvalidInput, "invalid offset")
		}
		filter.Offset = offset
	}
	if raw := q.Get("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return store.ListFilter{}, dErrors.New(dErrors.CodeInvalidInput, "invalid from date")
		}
		filter.From = from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return store.ListFilter{}, dErrors.New(dErrors.CodeInvalidInput, "invalid to date")
		}
		filter.To = to
	}
	return filter, nil
}
