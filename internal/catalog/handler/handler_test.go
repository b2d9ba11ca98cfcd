package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solidario/internal/catalog/models"
	id "solidario/pkg/domain"
	dErrors "solidario/pkg/domain-errors"
)

type stubCatalog struct {
	programs    []*models.Program
	createdCode string
	updatedID   id.ProgramID
	err         error
}

func (s *stubCatalog) Programs(_ context.Context, activeOnly bool) ([]*models.Program, error) {
	if s.err != nil {
		return nil, s.err
	}
	if !activeOnly {
		return s.programs, nil
	}
	var out []*models.Program
	for _, p := range s.programs {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubCatalog) Program(_ context.Context, programID id.ProgramID) (*models.Program, error) {
	for _, p := range s.programs {
		if p.ID == programID {
			return p, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "Programa no encontrado")
}

func (s *stubCatalog) CreateProgram(_ context.Context, code, name string) (*models.Program, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.createdCode = code
	return &models.Program{ID: 1, Code: code, Name: name, Active: true, Benefits: []models.Benefit{}}, nil
}

func (s *stubCatalog) UpdateProgram(_ context.Context, programID id.ProgramID, name string, active bool) (*models.Program, error) {
	s.updatedID = programID
	return &models.Program{ID: programID, Name: name, Active: active, Benefits: []models.Benefit{}}, nil
}

func (s *stubCatalog) CreateBenefit(_ context.Context, programID id.ProgramID, code, shortName string) (*models.Benefit, error) {
	return &models.Benefit{ID: 1, ProgramID: programID, Code: code, ShortName: shortName, Active: true}, nil
}

func (s *stubCatalog) UpdateBenefit(_ context.Context, benefitID id.BenefitID, shortName string, active bool) (*models.Benefit, error) {
	return &models.Benefit{ID: benefitID, ShortName: shortName, Active: active}, nil
}

func (s *stubCatalog) Geography() []models.Department {
	return []models.Department{{Code: 1, Name: "Guatemala"}}
}

func (s *stubCatalog) Institutions() []models.Institution {
	return []models.Institution{{Code: 10, Name: "Ministerio de Desarrollo Social"}}
}

func newTestHandler(stub *stubCatalog) *chi.Mux {
	h := New(stub, slog.Default())
	r := chi.NewRouter()
	r.Route("/api/catalogo", h.Register)
	r.Route("/api/admin/catalogo", h.RegisterAdmin)
	return r
}

func TestListProgramsFiltersInactive(t *testing.T) {
	stub := &stubCatalog{programs: []*models.Program{
		{ID: 1, Code: "BS", Name: "Bono Social", Active: true, Benefits: []models.Benefit{}},
		{ID: 2, Code: "VM", Name: "Vaso de Leche", Active: false, Benefits: []models.Benefit{}},
	}}
	router := newTestHandler(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalogo/programas", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bono Social")
	assert.NotContains(t, rec.Body.String(), "Vaso de Leche")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/catalogo/programas", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Vaso de Leche")
}

func TestListProgramsEmptyIsArray(t *testing.T) {
	router := newTestHandler(&stubCatalog{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalogo/programas", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"programs": []}`, rec.Body.String())
}

func TestGeographyAndInstitutions(t *testing.T) {
	router := newTestHandler(&stubCatalog{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalogo/geografia", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Guatemala")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalogo/instituciones", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ministerio de Desarrollo Social")
}

func TestCreateProgram(t *testing.T) {
	stub := &stubCatalog{}
	router := newTestHandler(stub)

	body := strings.NewReader(`{"code": "BS", "name": "Bono Social"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/catalogo/programas", body))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "BS", stub.createdCode)
}

func TestCreateProgramValidationMaps400(t *testing.T) {
	stub := &stubCatalog{err: dErrors.New(dErrors.CodeValidation, "Código y nombre son obligatorios")}
	router := newTestHandler(stub)

	body := strings.NewReader(`{"code": "", "name": ""}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/catalogo/programas", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProgramParsesID(t *testing.T) {
	stub := &stubCatalog{}
	router := newTestHandler(stub)

	body := strings.NewReader(`{"name": "Bono Social", "active": false}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/admin/catalogo/programas/7", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.ProgramID(7), stub.updatedID)
}

func TestUpdateProgramRejectsBadID(t *testing.T) {
	router := newTestHandler(&stubCatalog{})

	body := strings.NewReader(`{"name": "X", "active": true}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/admin/catalogo/programas/abc", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMissingProgramMaps404(t *testing.T) {
	router := newTestHandler(&stubCatalog{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/catalogo/programas/9", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBenefit(t *testing.T) {
	router := newTestHandler(&stubCatalog{})

	body := strings.NewReader(`{"code": "APO", "short_name": "Aporte económico"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/catalogo/programas/7/beneficios", body))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Aporte económico")
}
