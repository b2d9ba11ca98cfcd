package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	id "solidario/pkg/domain"
	dErrors "solidario/pkg/domain-errors"
	"solidario/pkg/platform/sentinel"

	"solidario/internal/audit"
	"solidario/internal/delivery/models"
	"solidario/internal/delivery/store"
	"solidario/internal/registry/mocks"
	regmodels "solidario/internal/registry/models"
)

const testCUI = "3004735750101"

type stubCatalog struct{}

func (stubCatalog) ProgramName(_ context.Context, programID id.ProgramID) (string, error) {
	if programID == 7 {
		return "Bono Social", nil
	}
	return "", sentinel.ErrNotFound
}

func (stubCatalog) BenefitName(_ context.Context, benefitID id.BenefitID) (string, error) {
	if benefitID == 3 {
		return "Aporte económico", nil
	}
	return "", sentinel.ErrNotFound
}

func (stubCatalog) InstitutionName(code int) (string, bool) {
	if code == 10 {
		return "Ministerio de Desarrollo Social", true
	}
	return "", false
}

func (stubCatalog) DepartmentName(code int) (string, bool) {
	if code == 1 {
		return "Guatemala", true
	}
	return "", false
}

func (stubCatalog) MunicipalityName(dept, muni int) (string, bool) {
	if dept == 1 && muni == 1 {
		return "Guatemala", true
	}
	return "", false
}

type WorkflowSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockLookup *mocks.MockClient
	sessions   *store.InMemorySessionStore
	deliveries *store.InMemoryDeliveryStore
	auditStore *audit.InMemoryStore
	service    *Service
	operator   id.UserID
	cui        id.CUI
}

func (s *WorkflowSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockLookup = mocks.NewMockClient(s.ctrl)
	s.sessions = store.NewInMemorySession()
	s.deliveries = store.NewInMemoryDelivery()
	s.auditStore = audit.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.service = New(s.sessions, s.deliveries, s.mockLookup, stubCatalog{},
		WithLogger(logger),
		WithAuditPublisher(audit.NewPublisher(s.auditStore)),
	)
	s.operator = id.NewUserID()

	cui, err := id.ParseCUI(testCUI)
	s.Require().NoError(err)
	s.cui = cui
}

func (s *WorkflowSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestWorkflowSuite(t *testing.T) {
	suite.Run(t, new(WorkflowSuite))
}

func (s *WorkflowSuite) basicRecord() *regmodels.BasicPersonRecord {
	return &regmodels.BasicPersonRecord{
		CUI:      testCUI,
		FullName: "Maria Jose Lopez Garcia",
		Sex:      "Mujer",
	}
}

func (s *WorkflowSuite) fullRecord() *regmodels.FullPersonRecord {
	return &regmodels.FullPersonRecord{
		CUI:             testCUI,
		FullName:        "Maria Jose Lopez Garcia",
		Sex:             "Mujer",
		BirthDate:       "1985-03-12",
		BirthDepartment: "1",
		// Municipality, residence and the cultural fields deliberately
		// unanswered, so they stay open for manual entry.
		CheckedAt: time.Now(),
	}
}

// resolve drives the session to Found.
func (s *WorkflowSuite) resolve() *models.Session {
	s.mockLookup.EXPECT().LookupBasic(gomock.Any(), s.cui).Return(s.basicRecord(), nil)
	sess, err := s.service.EditIdentifier(context.Background(), s.operator, testCUI)
	s.Require().NoError(err)
	s.Require().Equal(models.StateFound, sess.State)
	return sess
}

// confirm drives the session to ConfirmedAPI via the full lookup.
func (s *WorkflowSuite) confirm() *models.Session {
	s.resolve()
	s.mockLookup.EXPECT().LookupFull(gomock.Any(), s.cui).Return(s.fullRecord(), nil)
	sess, err := s.service.Confirm(context.Background(), s.operator)
	s.Require().NoError(err)
	s.Require().Equal(models.StateConfirmedAPI, sess.State)
	return sess
}

func (s *WorkflowSuite) setField(field, value string) {
	_, err := s.service.SetField(context.Background(), s.operator, field, value)
	s.Require().NoError(err)
}

// fillDeliveryFields completes every mandatory delivery attribute.
func (s *WorkflowSuite) fillDeliveryFields() {
	s.setField(models.FieldInstitution, "10")
	s.setField(models.FieldProgram, "7")
	s.setField(models.FieldBenefit, "3")
	s.setField(models.FieldDeliveryDepartment, "1")
	s.setField(models.FieldDeliveryMunicipality, "1")
	s.setField(models.FieldDeliveryDate, "2025-06-15")
	s.setField(models.FieldQuantity, "1")
	s.setField(models.FieldValue, "250.00")
	s.setField(models.FieldReference, "ACTA-001")
}

func (s *WorkflowSuite) TestPartialIdentifierStaysIdle() {
	sess, err := s.service.EditIdentifier(context.Background(), s.operator, "3004")
	s.Require().NoError(err)
	s.Equal(models.StateIdle, sess.State)
	s.Equal("3004", sess.Identifier)
	s.Empty(sess.Message)
}

func (s *WorkflowSuite) TestInputSanitizedToDigits() {
	sess, err := s.service.EditIdentifier(context.Background(), s.operator, "30-04 73a5")
	s.Require().NoError(err)
	s.Equal("3004735", sess.Identifier)
}

func (s *WorkflowSuite) TestInvalidChecksumSurfacesMessage() {
	sess, err := s.service.EditIdentifier(context.Background(), s.operator, "3004735760101")
	s.Require().NoError(err)
	s.Equal(models.StateIdle, sess.State)
	s.Equal("CUI inválido", sess.Message)
}

func (s *WorkflowSuite) TestValidIdentifierTriggersLookup() {
	sess := s.resolve()
	s.Equal("Maria Jose Lopez Garcia", sess.DisplayName)
	s.Equal("Mujer", sess.DisplaySex)
}

func (s *WorkflowSuite) TestLookupNotFound() {
	s.mockLookup.EXPECT().LookupBasic(gomock.Any(), s.cui).Return(nil, sentinel.ErrNotFound)
	sess, err := s.service.EditIdentifier(context.Background(), s.operator, testCUI)
	s.Require().NoError(err)
	s.Equal(models.StateNotFound, sess.State)
	s.Equal("Usuario no encontrado", sess.Message)
}

func (s *WorkflowSuite) TestLookupTransportErrorKeepsIdle() {
	s.mockLookup.EXPECT().LookupBasic(gomock.Any(), s.cui).Return(nil, errors.New("connection refused"))
	sess, err := s.service.EditIdentifier(context.Background(), s.operator, testCUI)
	s.Require().NoError(err)
	s.Equal(models.StateIdle, sess.State)
	s.NotEmpty(sess.Message)
}

func (s *WorkflowSuite) TestStaleLookupResultDiscarded() {
	ctx := context.Background()

	// While the lookup is in flight the operator keeps typing, which bumps
	// the generation. The late answer must not repopulate the reset form.
	s.mockLookup.EXPECT().LookupBasic(gomock.Any(), s.cui).DoAndReturn(
		func(ctx context.Context, _ id.CUI) (*regmodels.BasicPersonRecord, error) {
			_, err := s.service.EditIdentifier(ctx, s.operator, "300473")
			s.Require().NoError(err)
			return s.basicRecord(), nil
		})

	sess, err := s.service.EditIdentifier(ctx, s.operator, testCUI)
	s.Require().NoError(err)
	s.Equal(models.StateIdle, sess.State)
	s.Empty(sess.DisplayName)
	s.Equal("300473", sess.Identifier)
}

func (s *WorkflowSuite) TestConfirmAppliesFullRecord() {
	sess := s.confirm()

	// Known-field masking invariant: non-empty answers and only those are
	// marked known.
	s.True(sess.Known[models.FieldCUI])
	s.True(sess.Known[models.FieldFirstName])
	s.True(sess.Known[models.FieldSecondName])
	s.True(sess.Known[models.FieldFirstSurname])
	s.True(sess.Known[models.FieldSecondSurname])
	s.True(sess.Known[models.FieldSex])
	s.True(sess.Known[models.FieldBirthDate])
	s.True(sess.Known[models.FieldBirthDepartment])
	s.False(sess.Known[models.FieldThirdName])
	s.False(sess.Known[models.FieldBirthMunicipality])
	s.False(sess.Known[models.FieldEthnicGroup])
	s.False(sess.Known[models.FieldAddress])

	// Four-word name splits two/two.
	s.Equal("Maria", sess.Fields[models.FieldFirstName])
	s.Equal("Jose", sess.Fields[models.FieldSecondName])
	s.Equal("Lopez", sess.Fields[models.FieldFirstSurname])
	s.Equal("Garcia", sess.Fields[models.FieldSecondSurname])
	s.Equal(testCUI, sess.Fields[models.FieldCUI])
}

func (s *WorkflowSuite) TestConfirmManualRegistration() {
	s.mockLookup.EXPECT().LookupBasic(gomock.Any(), s.cui).Return(nil, sentinel.ErrNotFound)
	_, err := s.service.EditIdentifier(context.Background(), s.operator, testCUI)
	s.Require().NoError(err)

	sess, err := s.service.Confirm(context.Background(), s.operator)
	s.Require().NoError(err)
	s.Equal(models.StateConfirmedManual, sess.State)
	s.Equal(testCUI, sess.Fields[models.FieldCUI])
	s.True(sess.Known[models.FieldCUI])
	for _, f := range models.PersonFields {
		if f == models.FieldCUI {
			continue
		}
		s.False(sess.Known[f], "field %q must stay unknown for manual registration", f)
	}
}

func (s *WorkflowSuite) TestConfirmFromIdleRejected() {
	_, err := s.service.Session(context.Background(), s.operator)
	s.Require().NoError(err)

	_, err = s.service.Confirm(context.Background(), s.operator)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeStateConflict))
}

func (s *WorkflowSuite) TestFullLookupFailureKeepsFound() {
	s.resolve()
	s.mockLookup.EXPECT().LookupFull(gomock.Any(), s.cui).Return(nil, errors.New("timeout"))

	_, err := s.service.Confirm(context.Background(), s.operator)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUpstreamUnavailable))

	sess, err := s.service.Session(context.Background(), s.operator)
	s.Require().NoError(err)
	s.Equal(models.StateFound, sess.State, "failed full lookup must not advance the session")
}

func (s *WorkflowSuite) TestMaskedFieldRejectsWrites() {
	s.confirm()

	_, err := s.service.SetField(context.Background(), s.operator, models.FieldFirstName, "Pedro")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	// Unknown fields accept manual entry.
	sess, err := s.service.SetField(context.Background(), s.operator, models.FieldBirthMunicipality, "1")
	s.Require().NoError(err)
	s.Equal("1", sess.Fields[models.FieldBirthMunicipality])
	s.Equal(models.StateEditing, sess.State)
}

func (s *WorkflowSuite) TestPersonFieldRequiresConfirmation() {
	_, err := s.service.Session(context.Background(), s.operator)
	s.Require().NoError(err)

	_, err = s.service.SetField(context.Background(), s.operator, models.FieldFirstName, "Pedro")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeStateConflict))
}

func (s *WorkflowSuite) TestDeliveryFieldsEditableAnytime() {
	sess, err := s.service.SetField(context.Background(), s.operator, models.FieldReference, "ACTA-001")
	s.Require().NoError(err)
	s.Equal("ACTA-001", sess.Fields[models.FieldReference])
	s.Equal(models.StateIdle, sess.State)
}

func (s *WorkflowSuite) TestEditCancelsResolution() {
	s.confirm()

	sess, err := s.service.EditIdentifier(context.Background(), s.operator, "30047")
	s.Require().NoError(err)

	s.Equal(models.StateIdle, sess.State)
	s.Empty(sess.DisplayName)
	for _, f := range models.PersonFields {
		s.Empty(sess.Fields[f], "person field %q must clear on identifier edit", f)
		s.False(sess.Known[f])
	}
}

func (s *WorkflowSuite) TestResetIdempotentUnderLock() {
	ctx := context.Background()
	s.fillDeliveryFields()

	_, err := s.service.ToggleLock(ctx, s.operator, models.FieldProgram, true)
	s.Require().NoError(err)
	_, err = s.service.ToggleLock(ctx, s.operator, models.FieldValue, true)
	s.Require().NoError(err)

	once, err := s.service.Reset(ctx, s.operator)
	s.Require().NoError(err)
	twice, err := s.service.Reset(ctx, s.operator)
	s.Require().NoError(err)

	s.Equal(once.Fields, twice.Fields, "reset must be idempotent")

	s.Equal("7", twice.Fields[models.FieldProgram], "locked field keeps its value")
	s.Equal("250.00", twice.Fields[models.FieldValue])
	s.Empty(twice.Fields[models.FieldReference], "unlocked field clears")
	s.Equal(models.DefaultQuantity, twice.Fields[models.FieldQuantity])
	s.True(twice.Locks[models.FieldProgram], "locks survive the reset")
}

func (s *WorkflowSuite) TestSummaryRejectsIncompleteForm() {
	s.confirm()
	s.setField(models.FieldBirthMunicipality, "1")
	// Delivery attributes deliberately left empty.

	_, err := s.service.Summary(context.Background(), s.operator)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(err.Error(), "Programa")
	s.Contains(err.Error(), "Referencia")
}

func (s *WorkflowSuite) TestSummaryRequiresConfirmation() {
	s.fillDeliveryFields()

	_, err := s.service.Summary(context.Background(), s.operator)
	s.Require().Error(err)
	s.Contains(err.Error(), "Confirmación de persona")
}

func (s *WorkflowSuite) TestSummaryResolvesDisplayNames() {
	s.confirm()
	s.setField(models.FieldBirthMunicipality, "1")
	s.fillDeliveryFields()

	summary, err := s.service.Summary(context.Background(), s.operator)
	s.Require().NoError(err)
	s.Equal("Maria Jose Lopez Garcia", summary.FullName)
	s.Equal(testCUI, summary.CUI)
	s.Equal("Bono Social", summary.Program)
	s.Equal("Aporte económico", summary.Benefit)
	s.Equal("Ministerio de Desarrollo Social", summary.Institution)
	s.Equal("Guatemala", summary.Department)
	s.Equal("Guatemala", summary.Municipality)
}

func (s *WorkflowSuite) TestSubmitPersistsResetsAndAudits() {
	ctx := context.Background()
	s.confirm()
	s.setField(models.FieldBirthMunicipality, "1")
	s.fillDeliveryFields()
	_, err := s.service.ToggleLock(ctx, s.operator, models.FieldProgram, true)
	s.Require().NoError(err)

	record, err := s.service.Submit(ctx, s.operator)
	s.Require().NoError(err)

	s.Equal(testCUI, record.CUI)
	s.Equal(2, record.SexCode, "Mujer maps to 2")
	s.Equal("1985-03-12", record.BirthDate)
	s.Equal(id.ProgramID(7), record.ProgramID)
	s.Equal(id.BenefitID(3), record.BenefitID)
	s.Equal(1, record.Quantity)
	s.Equal(250.0, record.Value)
	s.Equal(models.StatusRegistered, record.Status)
	s.Equal(s.operator, record.CreatedBy)

	stored, err := s.deliveries.FindByID(ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(record.CUI, stored.CUI)

	events, err := s.auditStore.ListByActor(ctx, s.operator.String(), 0)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionDeliverySubmitted, events[0].Action)

	// The form reset per the lock rules.
	sess, err := s.service.Session(ctx, s.operator)
	s.Require().NoError(err)
	s.Equal(models.StateIdle, sess.State)
	s.Empty(sess.Identifier)
	s.Equal("7", sess.Fields[models.FieldProgram], "locked program survives submit reset")
	s.Empty(sess.Fields[models.FieldReference])
}

type failingDeliveryStore struct {
	store.DeliveryStore
}

func (failingDeliveryStore) Save(context.Context, *models.DeliveryRecord) error {
	return errors.New("database unavailable")
}

func (s *WorkflowSuite) TestSubmitFailurePreservesSession() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := New(s.sessions, failingDeliveryStore{}, s.mockLookup, stubCatalog{}, WithLogger(logger))

	s.mockLookup.EXPECT().LookupBasic(gomock.Any(), s.cui).Return(s.basicRecord(), nil)
	_, err := svc.EditIdentifier(ctx, s.operator, testCUI)
	s.Require().NoError(err)
	s.mockLookup.EXPECT().LookupFull(gomock.Any(), s.cui).Return(s.fullRecord(), nil)
	_, err = svc.Confirm(ctx, s.operator)
	s.Require().NoError(err)

	mustSet := func(field, value string) {
		_, err := svc.SetField(ctx, s.operator, field, value)
		s.Require().NoError(err)
	}
	mustSet(models.FieldBirthMunicipality, "1")
	mustSet(models.FieldInstitution, "10")
	mustSet(models.FieldProgram, "7")
	mustSet(models.FieldBenefit, "3")
	mustSet(models.FieldDeliveryDepartment, "1")
	mustSet(models.FieldDeliveryMunicipality, "1")
	mustSet(models.FieldDeliveryDate, "2025-06-15")
	mustSet(models.FieldQuantity, "2")
	mustSet(models.FieldValue, "100")
	mustSet(models.FieldReference, "ACTA-002")

	_, err = svc.Submit(ctx, s.operator)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	// State preserved for retry.
	sess, err := svc.Session(ctx, s.operator)
	s.Require().NoError(err)
	s.Equal(models.StateEditing, sess.State)
	s.Equal(testCUI, sess.Identifier)
	s.Equal("ACTA-002", sess.Fields[models.FieldReference])
}
