// Package service implements the delivery-registration workflow: resolving a
// citizen identifier through the registry, reconciling which fields are known
// versus manually entered, and assembling the final delivery record. All form
// state lives server-side in a per-operator session, and every mutation goes
// through a named transition so the state machine stays closed.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	id "solidario/pkg/domain"
	dErrors "solidario/pkg/domain-errors"
	"solidario/pkg/platform/sentinel"

	"solidario/internal/audit"
	"solidario/internal/delivery/models"
	"solidario/internal/delivery/store"
	"solidario/internal/platform/kafka/producer"
	"solidario/internal/platform/metrics"
	regmodels "solidario/internal/registry/models"
)

// User-facing messages, in Spanish.
const (
	msgInvalidCUI      = "CUI inválido"
	msgUserNotFound    = "Usuario no encontrado"
	msgRegistryFailed  = "No fue posible consultar el registro. Intente de nuevo."
	msgFullFailed      = "No fue posible obtener los datos completos de la persona."
	msgSubmitFailed    = "No fue posible registrar la entrega. Intente de nuevo."
	msgBadConfirmState = "La confirmación no es válida en el estado actual."
)

// TopicDeliverySubmitted carries one event per persisted delivery for
// downstream reporting.
const TopicDeliverySubmitted = "solidario.deliveries.submitted"

// PersonLookup resolves citizens against the registry.
type PersonLookup interface {
	LookupBasic(ctx context.Context, cui id.CUI) (*regmodels.BasicPersonRecord, error)
	LookupFull(ctx context.Context, cui id.CUI) (*regmodels.FullPersonRecord, error)
}

// Catalog resolves program, benefit, institution and geography display names
// for the confirmation summary and validates referenced identifiers.
type Catalog interface {
	ProgramName(ctx context.Context, programID id.ProgramID) (string, error)
	BenefitName(ctx context.Context, benefitID id.BenefitID) (string, error)
	InstitutionName(code int) (string, bool)
	DepartmentName(code int) (string, bool)
	MunicipalityName(departmentCode, municipalityCode int) (string, bool)
}

// AuditPublisher records audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns registration sessions and delivery submission.
type Service struct {
	sessions   store.SessionStore
	deliveries store.DeliveryStore
	lookup     PersonLookup
	catalog    Catalog

	auditor  AuditPublisher
	producer *producer.Producer
	metrics  *metrics.Metrics
	logger   *slog.Logger

	sessionTTL time.Duration
	now        func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAuditPublisher enables audit events for submissions.
func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

// WithEventProducer enables Kafka events for submitted deliveries.
func WithEventProducer(p *producer.Producer) Option {
	return func(s *Service) {
		s.producer = p
	}
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithSessionTTL overrides the default session lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.sessionTTL = ttl
	}
}

// New creates the delivery workflow service.
func New(sessions store.SessionStore, deliveries store.DeliveryStore, lookup PersonLookup, catalog Catalog, opts ...Option) *Service {
	s := &Service{
		sessions:   sessions,
		deliveries: deliveries,
		lookup:     lookup,
		catalog:    catalog,
		logger:     slog.Default(),
		sessionTTL: 2 * time.Hour,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns the operator's current session, creating an idle one if
// none exists.
func (s *Service) Session(ctx context.Context, operatorID id.UserID) (*models.Session, error) {
	sess, err := s.sessions.FindByOperator(ctx, operatorID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	sess = models.NewSession(operatorID, s.now(), s.sessionTTL)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ActiveSessions.Inc()
	}
	return sess, nil
}

// EditIdentifier applies an identifier keystroke. Input is sanitized to
// digits and capped at 13 characters; any edit clears all downstream person
// state. When exactly 13 valid digits are present the basic lookup runs.
// Each edit bumps the session generation, so an answer from a superseded
// lookup is discarded instead of repopulating a reset form.
func (s *Service) EditIdentifier(ctx context.Context, operatorID id.UserID, input string) (*models.Session, error) {
	sess, err := s.Session(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	sess.Identifier = id.SanitizeCUIInput(input)
	sess.Generation++
	clearPersonState(sess)

	if len(sess.Identifier) < 13 {
		return sess, s.save(ctx, sess)
	}

	cui, err := id.ParseCUI(sess.Identifier)
	if err != nil {
		sess.Message = msgInvalidCUI
		return sess, s.save(ctx, sess)
	}

	generation := sess.Generation
	sess.State = models.StateSearching
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	record, lookupErr := s.lookup.LookupBasic(ctx, cui)

	// Re-read before applying: a concurrent edit supersedes this lookup.
	sess, err = s.Session(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if sess.Generation != generation {
		return sess, nil
	}

	switch {
	case lookupErr == nil:
		sess.State = models.StateFound
		sess.DisplayName = record.FullName
		sess.DisplaySex = record.Sex
	case errors.Is(lookupErr, sentinel.ErrNotFound):
		sess.State = models.StateNotFound
		sess.Message = msgUserNotFound
	default:
		s.logger.WarnContext(ctx, "basic lookup failed", "error", lookupErr)
		sess.State = models.StateIdle
		sess.Message = msgRegistryFailed
	}
	return sess, s.save(ctx, sess)
}

// Confirm advances the session past the confirmation step. From Found it
// runs the full lookup and applies every answered field; from NotFound with a
// valid identifier it starts a manual registration where only the identifier
// is known.
func (s *Service) Confirm(ctx context.Context, operatorID id.UserID) (*models.Session, error) {
	sess, err := s.Session(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	switch sess.State {
	case models.StateFound:
		return s.confirmFromRegistry(ctx, operatorID, sess)
	case models.StateNotFound:
		sess.State = models.StateConfirmedManual
		sess.Message = ""
		sess.Fields[models.FieldCUI] = sess.Identifier
		sess.Known = models.NewKnownFieldsMap()
		sess.Known[models.FieldCUI] = true
		return sess, s.save(ctx, sess)
	default:
		return nil, dErrors.New(dErrors.CodeStateConflict, msgBadConfirmState)
	}
}

func (s *Service) confirmFromRegistry(ctx context.Context, operatorID id.UserID, sess *models.Session) (*models.Session, error) {
	cui, err := id.ParseCUI(sess.Identifier)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeStateConflict, msgBadConfirmState)
	}

	generation := sess.Generation
	record, lookupErr := s.lookup.LookupFull(ctx, cui)
	if lookupErr != nil {
		// The session stays in Found; the operator retries by clicking
		// confirm again.
		s.logger.WarnContext(ctx, "full lookup failed", "error", lookupErr)
		return nil, dErrors.Wrap(lookupErr, dErrors.CodeUpstreamUnavailable, msgFullFailed)
	}

	sess, err = s.Session(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if sess.Generation != generation || sess.State != models.StateFound {
		return nil, dErrors.New(dErrors.CodeStateConflict, msgBadConfirmState)
	}

	applyFullRecord(sess, record)
	sess.State = models.StateConfirmedAPI
	sess.Message = ""
	return sess, s.save(ctx, sess)
}

// SetField writes one field value. Identifier edits route through
// EditIdentifier; registry-known person fields are masked and reject writes;
// person fields require a confirmed session. The first person-field write
// after confirmation moves the session to Editing.
func (s *Service) SetField(ctx context.Context, operatorID id.UserID, field, value string) (*models.Session, error) {
	if field == models.FieldCUI {
		return s.EditIdentifier(ctx, operatorID, value)
	}

	sess, err := s.Session(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	switch {
	case models.IsDeliveryField(field):
		sess.Fields[field] = value
	case models.IsPersonField(field):
		if !sess.State.Confirmed() {
			return nil, dErrors.New(dErrors.CodeStateConflict,
				"Confirme la persona antes de editar sus datos.")
		}
		if sess.Known[field] {
			return nil, dErrors.New(dErrors.CodeInvalidInput,
				fmt.Sprintf("El campo %s proviene del registro y no puede modificarse.", models.Label(field)))
		}
		sess.Fields[field] = value
		if sess.State == models.StateConfirmedAPI || sess.State == models.StateConfirmedManual {
			sess.State = models.StateEditing
		}
	default:
		return nil, dErrors.New(dErrors.CodeInvalidInput, "Campo desconocido: "+field)
	}

	return sess, s.save(ctx, sess)
}

// ToggleLock pins or releases a delivery-attribute field so its value
// survives form resets.
func (s *Service) ToggleLock(ctx context.Context, operatorID id.UserID, field string, locked bool) (*models.Session, error) {
	if !models.IsDeliveryField(field) {
		return nil, dErrors.New(dErrors.CodeInvalidInput,
			"Solo los campos de entrega pueden fijarse: "+field)
	}

	sess, err := s.Session(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	sess.Locks[field] = locked
	return sess, s.save(ctx, sess)
}

// Reset returns the session to Idle. Person fields, provenance flags and the
// identifier clear unconditionally; delivery fields keep their value when
// locked and otherwise reset to their defaults. Resetting is idempotent.
func (s *Service) Reset(ctx context.Context, operatorID id.UserID) (*models.Session, error) {
	sess, err := s.Session(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	resetForm(sess)
	return sess, s.save(ctx, sess)
}

// Summary validates required fields and renders the human-readable
// confirmation shown before submission. It fails with an aggregated message
// listing every missing field, so the dialog can never open on an incomplete
// form.
func (s *Service) Summary(ctx context.Context, operatorID id.UserID) (*ConfirmationSummary, error) {
	sess, err := s.Session(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if err := s.validateRequired(sess); err != nil {
		return nil, err
	}
	return s.buildSummary(ctx, sess), nil
}

// Submit assembles and persists the delivery record, then resets the form.
// On failure the session is preserved untouched so the operator can retry.
func (s *Service) Submit(ctx context.Context, operatorID id.UserID) (*models.DeliveryRecord, error) {
	sess, err := s.Session(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if err := s.validateRequired(sess); err != nil {
		return nil, err
	}

	record, err := s.buildRecord(sess, operatorID)
	if err != nil {
		return nil, err
	}

	if err := s.deliveries.Save(ctx, record); err != nil {
		if s.metrics != nil {
			s.metrics.DeliverySubmitErrors.Inc()
		}
		s.logger.ErrorContext(ctx, "delivery submission failed", "error", err, "cui", record.CUI)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, msgSubmitFailed)
	}

	if s.metrics != nil {
		s.metrics.DeliveriesSubmitted.Inc()
	}
	if s.auditor != nil {
		_ = s.auditor.Emit(ctx, audit.Event{
			ActorID:  operatorID.String(),
			Action:   audit.ActionDeliverySubmitted,
			Entity:   "delivery",
			EntityID: record.ID.String(),
			Detail:   fmt.Sprintf("programa=%s beneficio=%s", record.ProgramID, record.BenefitID),
		})
	}
	s.publishSubmitted(ctx, record)

	resetForm(sess)
	if err := s.save(ctx, sess); err != nil {
		// The delivery is already persisted; a failed reset only costs the
		// operator a manual reset.
		s.logger.WarnContext(ctx, "post-submit reset failed", "error", err)
	}

	s.logger.InfoContext(ctx, "delivery registered",
		"delivery_id", record.ID,
		"program_id", record.ProgramID,
		"operator_id", operatorID,
	)
	return record, nil
}

// List returns submitted deliveries for the admin panel.
func (s *Service) List(ctx context.Context, filter store.ListFilter) ([]*models.DeliveryRecord, error) {
	records, err := s.deliveries.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	return records, nil
}

// Find returns one delivery by ID.
func (s *Service) Find(ctx context.Context, deliveryID id.DeliveryID) (*models.DeliveryRecord, error) {
	record, err := s.deliveries.FindByID(ctx, deliveryID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Entrega no encontrada")
		}
		return nil, fmt.Errorf("failed to find delivery: %w", err)
	}
	return record, nil
}

// Void marks a delivery as annulled. The record itself is never deleted.
func (s *Service) Void(ctx context.Context, actorID id.UserID, deliveryID id.DeliveryID) error {
	if err := s.deliveries.UpdateStatus(ctx, deliveryID, models.StatusVoided); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "Entrega no encontrada")
		}
		return fmt.Errorf("failed to void delivery: %w", err)
	}
	if s.auditor != nil {
		_ = s.auditor.Emit(ctx, audit.Event{
			ActorID:  actorID.String(),
			Action:   audit.ActionDeliveryVoided,
			Entity:   "delivery",
			EntityID: deliveryID.String(),
		})
	}
	return nil
}

func (s *Service) publishSubmitted(ctx context.Context, record *models.DeliveryRecord) {
	if s.producer == nil {
		return
	}
	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to marshal delivery event", "error", err)
		return
	}
	if err := s.producer.ProduceAsync(&producer.Message{
		Topic: TopicDeliverySubmitted,
		Key:   []byte(record.CUI),
		Value: payload,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to publish delivery event", "error", err)
	}
}

func (s *Service) save(ctx context.Context, sess *models.Session) error {
	sess.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// clearPersonState wipes everything derived from a person resolution while
// leaving delivery-attribute fields and locks untouched.
func clearPersonState(sess *models.Session) {
	sess.State = models.StateIdle
	sess.DisplayName = ""
	sess.DisplaySex = ""
	sess.Message = ""
	for _, f := range models.PersonFields {
		sess.Fields[f] = ""
	}
	sess.Known = models.NewKnownFieldsMap()
}

// resetForm implements the full reset: person state clears unconditionally,
// delivery fields honor their locks, and quantity falls back to its default.
func resetForm(sess *models.Session) {
	sess.Identifier = ""
	sess.Generation++
	clearPersonState(sess)
	for _, f := range models.DeliveryFields {
		if sess.Locks[f] {
			continue
		}
		if f == models.FieldQuantity {
			sess.Fields[f] = models.DefaultQuantity
			continue
		}
		sess.Fields[f] = ""
	}
}

// applyFullRecord populates session fields from the registry's full record.
// Every non-empty answer marks its field known; empty answers stay unknown
// and open for manual entry. The identifier is always known once this path
// is taken.
func applyFullRecord(sess *models.Session, record *regmodels.FullPersonRecord) {
	sess.Known = models.NewKnownFieldsMap()
	set := func(field, value string) {
		if value == "" {
			return
		}
		sess.Fields[field] = value
		sess.Known[field] = true
	}

	sess.Fields[models.FieldCUI] = sess.Identifier
	sess.Known[models.FieldCUI] = true

	parts := models.SplitFullName(record.FullName)
	set(models.FieldFirstName, parts.FirstName)
	set(models.FieldSecondName, parts.SecondName)
	set(models.FieldThirdName, parts.ThirdName)
	set(models.FieldFirstSurname, parts.FirstSurname)
	set(models.FieldSecondSurname, parts.SecondSurname)
	set(models.FieldThirdSurname, parts.ThirdSurname)

	set(models.FieldSex, record.Sex)
	set(models.FieldBirthDate, record.BirthDate)
	set(models.FieldBirthDepartment, record.BirthDepartment)
	set(models.FieldBirthMunicipality, record.BirthMunicipality)
	set(models.FieldEthnicGroup, record.EthnicGroup)
	set(models.FieldLinguisticCommunity, record.LinguisticCommunity)
	set(models.FieldLanguage, record.Language)
	set(models.FieldHouseholdID, record.HouseholdID)
	set(models.FieldResidenceDepartment, record.ResidenceDepartment)
	set(models.FieldResidenceMunicipality, record.ResidenceMunicipality)
	set(models.FieldAddress, record.Address)
	set(models.FieldPhone, record.Phone)
	set(models.FieldSchoolingLevel, record.SchoolingLevel)
	set(models.FieldDisability, record.Disability)
	set(models.FieldWorks, record.Works)
}
