// Package service implements staff authentication: password verification
// with bcrypt, login lockout after repeated failures, and JWT issuance.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	id "solidario/pkg/domain"
	dErrors "solidario/pkg/domain-errors"
	"solidario/pkg/platform/sentinel"
	"solidario/pkg/secrets"

	"solidario/internal/audit"
	"solidario/internal/auth/models"
	"solidario/internal/auth/store"
	"solidario/internal/platform/metrics"
	"solidario/internal/platform/middleware"
)

const (
	msgBadCredentials = "Usuario o contraseña incorrectos"
	msgLockedOut      = "Demasiados intentos fallidos. Intente de nuevo más tarde."
	msgUserNotFound   = "Usuario no encontrado"
	msgUsernameTaken  = "El nombre de usuario ya está en uso"
	msgBadStaffInput  = "Usuario, nombre, contraseña y rol son obligatorios"
	msgShortPassword  = "La contraseña debe tener al menos 8 caracteres"
)

const minPasswordLength = 8

// Login attempt outcomes for the attempts metric.
const (
	outcomeSuccess   = "success"
	outcomeFailed    = "failed"
	outcomeLockedOut = "locked_out"
)

// TokenIssuer mints staff access tokens.
type TokenIssuer interface {
	GenerateToken(userID id.UserID, username, role string) (string, error)
}

// Lockout throttles repeated failed logins per username.
type Lockout interface {
	Check(ctx context.Context, username string) (allowed bool, retryAfter time.Duration)
	RecordFailure(ctx context.Context, username string) (locked bool)
	RecordSuccess(ctx context.Context, username string)
}

// AuditPublisher records audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service authenticates staff and manages staff accounts.
type Service struct {
	store   store.Store
	tokens  TokenIssuer
	lockout Lockout

	auditor AuditPublisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithLockout enables the login lockout.
func WithLockout(l Lockout) Option {
	return func(s *Service) {
		s.lockout = l
	}
}

// WithAuditPublisher enables audit events for logins and staff changes.
func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New creates the auth service.
func New(st store.Store, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		store:  st,
		tokens: tokens,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login verifies the credentials and returns a signed access token plus the
// authenticated user. Unknown usernames, wrong passwords and deactivated
// accounts all answer with the same message.
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.StaffUser, error) {
	username = strings.TrimSpace(username)

	if s.lockout != nil {
		if allowed, retryAfter := s.lockout.Check(ctx, username); !allowed {
			s.countAttempt(outcomeLockedOut)
			s.emitLogin(ctx, "", audit.ActionLoginLockedOut, username)
			s.logger.WarnContext(ctx, "login attempt while locked out",
				"username", username, "retry_after", retryAfter.Round(time.Second))
			return "", nil, dErrors.New(dErrors.CodeLockedOut, msgLockedOut)
		}
	}

	user, err := s.store.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "No fue posible iniciar sesión.")
	}

	if user == nil || !user.Active || secrets.Verify(password, user.PasswordHash) != nil {
		return "", nil, s.failLogin(ctx, username)
	}

	if s.lockout != nil {
		s.lockout.RecordSuccess(ctx, username)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "No fue posible iniciar sesión.")
	}

	s.countAttempt(outcomeSuccess)
	s.emitLogin(ctx, user.ID.String(), audit.ActionLoginSucceeded, username)
	s.logger.InfoContext(ctx, "staff login", "username", username, "role", user.Role)
	return token, user, nil
}

// failLogin records the failure against the lockout and audits it. The
// returned error never reveals whether the username exists.
func (s *Service) failLogin(ctx context.Context, username string) error {
	s.countAttempt(outcomeFailed)
	s.emitLogin(ctx, "", audit.ActionLoginFailed, username)

	if s.lockout != nil && s.lockout.RecordFailure(ctx, username) {
		if s.metrics != nil {
			s.metrics.LoginLockouts.Inc()
		}
		s.emitLogin(ctx, "", audit.ActionLoginLockedOut, username)
		s.logger.WarnContext(ctx, "login lockout triggered", "username", username)
	}
	return dErrors.New(dErrors.CodeUnauthorized, msgBadCredentials)
}

// Me returns the authenticated user's own record.
func (s *Service) Me(ctx context.Context, userID id.UserID) (*models.StaffUser, error) {
	user, err := s.store.FindByID(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, msgUserNotFound)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "No fue posible consultar el usuario.")
	}
	return user, nil
}

// ListStaff returns all staff users for the admin panel.
func (s *Service) ListStaff(ctx context.Context) ([]*models.StaffUser, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "No fue posible consultar los usuarios.")
	}
	return users, nil
}

// CreateStaff registers a new staff account. New accounts start active.
func (s *Service) CreateStaff(ctx context.Context, actorID id.UserID, username, fullName, password, role string) (*models.StaffUser, error) {
	username = strings.TrimSpace(username)
	fullName = strings.TrimSpace(fullName)
	if username == "" || fullName == "" || password == "" || !models.ValidRole(role) {
		return nil, dErrors.New(dErrors.CodeValidation, msgBadStaffInput)
	}
	if len(password) < minPasswordLength {
		return nil, dErrors.New(dErrors.CodeValidation, msgShortPassword)
	}

	hash, err := secrets.Hash(password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "No fue posible crear el usuario.")
	}

	user := &models.StaffUser{
		ID:           id.NewUserID(),
		Username:     username,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	err = s.store.Create(ctx, user)
	if errors.Is(err, sentinel.ErrConflict) {
		return nil, dErrors.New(dErrors.CodeConflict, msgUsernameTaken)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "No fue posible crear el usuario.")
	}

	s.emitStaff(ctx, actorID, audit.ActionStaffUserCreated, user)
	s.logger.InfoContext(ctx, "staff user created",
		"username", username, "role", role, "created_by", actorID)
	return user, nil
}

// SetActive enables or disables a staff account. Admins cannot disable
// themselves.
func (s *Service) SetActive(ctx context.Context, actorID, userID id.UserID, active bool) (*models.StaffUser, error) {
	if !active && actorID == userID {
		return nil, dErrors.New(dErrors.CodeStateConflict, "No puede desactivar su propia cuenta")
	}

	err := s.store.SetActive(ctx, userID, active)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, msgUserNotFound)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "No fue posible actualizar el usuario.")
	}

	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !active {
		s.emitStaff(ctx, actorID, audit.ActionStaffUserDisabled, user)
	}
	return user, nil
}

func (s *Service) countAttempt(outcome string) {
	if s.metrics != nil {
		s.metrics.LoginAttempts.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) emitLogin(ctx context.Context, actorID string, action audit.Action, username string) {
	if s.auditor == nil {
		return
	}
	info := middleware.GetClientInfo(ctx)
	detail := username
	if info.Browser != "" {
		detail += " (" + info.Browser
		if info.OS != "" {
			detail += ", " + info.OS
		}
		detail += ")"
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Timestamp: s.now().UTC(),
		ActorID:   actorID,
		Action:    action,
		Entity:    "staff_user",
		Detail:    detail,
		IP:        info.IP,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", action, "error", err)
	}
}

func (s *Service) emitStaff(ctx context.Context, actorID id.UserID, action audit.Action, user *models.StaffUser) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Timestamp: s.now().UTC(),
		ActorID:   actorID.String(),
		Action:    action,
		Entity:    "staff_user",
		EntityID:  user.ID.String(),
		Detail:    user.Username,
		IP:        middleware.GetClientInfo(ctx).IP,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", action, "error", err)
	}
}
