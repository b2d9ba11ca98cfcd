// Package workflow exercises the delivery-registration flow end to end over
// the real route tree: login, identifier resolution against a fake citizen
// registry, confirmation, field edits, summary and submission.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	authhandler "solidario/internal/auth/handler"
	authmodels "solidario/internal/auth/models"
	authservice "solidario/internal/auth/service"
	authstore "solidario/internal/auth/store"
	cataloghandler "solidario/internal/catalog/handler"
	catalogservice "solidario/internal/catalog/service"
	catalogstore "solidario/internal/catalog/store"
	contenthandler "solidario/internal/content/handler"
	contentservice "solidario/internal/content/service"
	contentstore "solidario/internal/content/store"
	deliveryhandler "solidario/internal/delivery/handler"
	deliveryservice "solidario/internal/delivery/service"
	deliverystore "solidario/internal/delivery/store"
	jwttoken "solidario/internal/jwt_token"
	"solidario/internal/platform/health"
	"solidario/internal/registry"
	regmodels "solidario/internal/registry/models"
	registryservice "solidario/internal/registry/service"
	registrystore "solidario/internal/registry/store"
	httptransport "solidario/internal/transport/http"
	id "solidario/pkg/domain"
	"solidario/pkg/testutil"
)

const testPassword = "correcthorse"

// fakeRegistry serves the citizen-registry API for a fixed set of persons.
// Unknown CUIs answer 404, matching the upstream contract.
func fakeRegistry(persons map[string]regmodels.FullPersonRecord) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/persons/{cui}", func(w http.ResponseWriter, r *http.Request) {
		record, ok := persons[r.PathValue("cui")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(record.Basic())
	})
	mux.HandleFunc("GET /v1/persons/{cui}/full", func(w http.ResponseWriter, r *http.Request) {
		record, ok := persons[r.PathValue("cui")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(record)
	})
	return mux
}

func testPersons() map[string]regmodels.FullPersonRecord {
	return map[string]regmodels.FullPersonRecord{
		testutil.TestCUI: {
			CUI:                   testutil.TestCUI,
			FullName:              "MARIA ELENA LOPEZ GARCIA",
			Sex:                   "Mujer",
			BirthDate:             "1988-03-15",
			BirthDepartment:       "1",
			BirthMunicipality:     "1",
			ResidenceDepartment:   "1",
			ResidenceMunicipality: "8",
			Address:               "4a calle 2-35 zona 1",
			Phone:                 "55512345",
			Works:                 "No",
		},
	}
}

type env struct {
	router    http.Handler
	programID id.ProgramID
	benefitID id.BenefitID
}

// setup wires the full application over in-memory stores, with the registry
// service talking HTTP to the given fake upstream.
func setup(t *testing.T, upstream http.Handler) *env {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	tokens := jwttoken.NewService("workflow-test-key", time.Hour)

	staff := authstore.NewInMemoryStore()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	for _, role := range []string{authmodels.RoleOperator, authmodels.RoleAdmin} {
		user := testutil.NewStaffUser().
			WithUsername(role + "1").
			WithRole(role).
			WithPasswordHash(string(hash)).
			Build()
		require.NoError(t, staff.Create(context.Background(), user))
	}
	auth := authservice.New(staff, tokens, authservice.WithLogger(logger))

	catalog := catalogservice.New(catalogstore.NewInMemoryStore(), catalogservice.WithLogger(logger))
	program, err := catalog.CreateProgram(context.Background(), "BSE", "Bono Social de Emergencia")
	require.NoError(t, err)
	benefit, err := catalog.CreateBenefit(context.Background(), program.ID, "BSE-ALI", "Bolsa de Alimentos")
	require.NoError(t, err)

	lookup := registryservice.New(
		registry.NewHTTPClient(srv.URL),
		registrystore.NewInMemory(time.Minute),
		registryservice.WithLogger(logger),
	)

	delivery := deliveryservice.New(
		deliverystore.NewInMemorySession(),
		deliverystore.NewInMemoryDelivery(),
		lookup,
		catalog,
		deliveryservice.WithLogger(logger),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Auth:           authhandler.New(auth, logger),
		Catalog:        cataloghandler.New(catalog, logger),
		Content:        contenthandler.New(contentservice.New(contentstore.NewInMemoryStore()), logger),
		Delivery:       deliveryhandler.New(delivery, logger),
		Health:         health.New("test"),
		TokenValidator: jwttoken.NewMiddlewareAdapter(tokens),
		Logger:         logger,
	})

	return &env{router: router, programID: program.ID, benefitID: benefit.ID}
}

func login(t *testing.T, router http.Handler, username string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "",
		map[string]string{"username": username, "password": testPassword})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// sessionView mirrors the wire form of a registration session.
type sessionView struct {
	State       string            `json:"state"`
	Identifier  string            `json:"identifier"`
	DisplayName string            `json:"display_name"`
	Message     string            `json:"message"`
	Fields      map[string]string `json:"fields"`
	Known       map[string]bool   `json:"known"`
	Locks       map[string]bool   `json:"locks"`
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) sessionView {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	var sess sessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	return sess
}

func setField(t *testing.T, router http.Handler, token, field, value string) sessionView {
	t.Helper()
	rec := doJSON(t, router, http.MethodPut, "/api/entregas/session/fields/"+field, token,
		map[string]string{"value": value})
	return decodeSession(t, rec)
}

func TestRegistryBackedRegistrationFlow(t *testing.T) {
	e := setup(t, fakeRegistry(testPersons()))
	operator := login(t, e.router, "operator1")
	admin := login(t, e.router, "admin1")

	// A fresh session starts idle with the default quantity.
	sess := decodeSession(t, doJSON(t, e.router, http.MethodGet, "/api/entregas/session", operator, nil))
	assert.Equal(t, "idle", sess.State)
	assert.Equal(t, "1", sess.Fields["quantity"])

	// Typing a complete identifier resolves the person.
	sess = decodeSession(t, doJSON(t, e.router, http.MethodPut, "/api/entregas/session/identifier", operator,
		map[string]string{"value": testutil.TestCUI}))
	assert.Equal(t, "found", sess.State)
	assert.Equal(t, "MARIA ELENA LOPEZ GARCIA", sess.DisplayName)

	// Confirming applies the full record; answered fields become read-only.
	sess = decodeSession(t, doJSON(t, e.router, http.MethodPost, "/api/entregas/session/confirm", operator, nil))
	assert.Equal(t, "confirmed_api", sess.State)
	assert.Equal(t, "MARIA", sess.Fields["first_name"])
	assert.Equal(t, "LOPEZ", sess.Fields["first_surname"])
	assert.True(t, sess.Known["first_name"])
	assert.True(t, sess.Known["birth_date"])

	rec := doJSON(t, e.router, http.MethodPut, "/api/entregas/session/fields/first_name", operator,
		map[string]string{"value": "JUANA"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "registro")

	// The summary refuses to open while delivery attributes are missing.
	rec = doJSON(t, e.router, http.MethodGet, "/api/entregas/session/summary", operator, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Programa")

	setField(t, e.router, operator, "institution", "10")
	setField(t, e.router, operator, "program", e.programID.String())
	setField(t, e.router, operator, "benefit", e.benefitID.String())
	setField(t, e.router, operator, "delivery_department", "1")
	setField(t, e.router, operator, "delivery_municipality", "1")
	setField(t, e.router, operator, "delivery_date", "2025-06-10")
	setField(t, e.router, operator, "value", "250.00")
	sess = setField(t, e.router, operator, "reference", "ACTA-001")
	assert.Equal(t, "confirmed_api", sess.State)

	// Pin the reference so it survives the post-submit reset.
	sess = decodeSession(t, doJSON(t, e.router, http.MethodPut, "/api/entregas/session/locks/reference", operator,
		map[string]bool{"locked": true}))
	assert.True(t, sess.Locks["reference"])

	// The summary resolves catalog display names.
	rec = doJSON(t, e.router, http.MethodGet, "/api/entregas/session/summary", operator, nil)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	var summary struct {
		FullName    string `json:"full_name"`
		Program     string `json:"program"`
		Institution string `json:"institution"`
		Department  string `json:"department"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "MARIA ELENA LOPEZ GARCIA", summary.FullName)
	assert.Equal(t, "Bono Social de Emergencia", summary.Program)
	assert.Equal(t, "Ministerio de Desarrollo Social", summary.Institution)
	assert.Equal(t, "Guatemala", summary.Department)

	rec = doJSON(t, e.router, http.MethodPost, "/api/entregas/session/submit", operator, nil)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	var record struct {
		ID        string  `json:"id"`
		CUI       string  `json:"cui"`
		SexCode   int     `json:"sex_code"`
		BirthDate string  `json:"birth_date"`
		Quantity  int     `json:"quantity"`
		Value     float64 `json:"value"`
		Status    string  `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, testutil.TestCUI, record.CUI)
	assert.Equal(t, 2, record.SexCode)
	assert.Equal(t, "1988-03-15", record.BirthDate)
	assert.Equal(t, 1, record.Quantity)
	assert.Equal(t, 250.0, record.Value)
	assert.Equal(t, "REGISTRADA", record.Status)

	// Submission resets the form; the locked reference keeps its value.
	sess = decodeSession(t, doJSON(t, e.router, http.MethodGet, "/api/entregas/session", operator, nil))
	assert.Equal(t, "idle", sess.State)
	assert.Empty(t, sess.Identifier)
	assert.Equal(t, "ACTA-001", sess.Fields["reference"])
	assert.Empty(t, sess.Fields["first_name"])

	// The delivery is visible in the listing and by ID.
	rec = doJSON(t, e.router, http.MethodGet, "/api/entregas/?cui="+testutil.TestCUI, operator, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Deliveries []json.RawMessage `json:"deliveries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Len(t, listing.Deliveries, 1)

	rec = doJSON(t, e.router, http.MethodGet, "/api/entregas/"+record.ID, operator, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Voiding is an admin mutation; operators are rejected at the router.
	rec = doJSON(t, e.router, http.MethodPost, "/api/admin/entregas/"+record.ID+"/void", operator, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, e.router, http.MethodPost, "/api/admin/entregas/"+record.ID+"/void", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ANULADA")

	rec = doJSON(t, e.router, http.MethodGet, "/api/entregas/"+record.ID, operator, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ANULADA")
}

func TestManualRegistrationWhenPersonNotInRegistry(t *testing.T) {
	e := setup(t, fakeRegistry(nil))
	operator := login(t, e.router, "operator1")

	sess := decodeSession(t, doJSON(t, e.router, http.MethodPut, "/api/entregas/session/identifier", operator,
		map[string]string{"value": testutil.TestCUI}))
	assert.Equal(t, "not_found", sess.State)
	assert.Equal(t, "Usuario no encontrado", sess.Message)

	// Confirming from not-found starts a manual capture: only the identifier
	// is known, everything else is typed by the operator.
	sess = decodeSession(t, doJSON(t, e.router, http.MethodPost, "/api/entregas/session/confirm", operator, nil))
	assert.Equal(t, "confirmed_manual", sess.State)
	assert.True(t, sess.Known["cui"])
	assert.False(t, sess.Known["first_name"])

	sess = setField(t, e.router, operator, "first_name", "PEDRO")
	assert.Equal(t, "editing", sess.State)
	setField(t, e.router, operator, "first_surname", "TZUL")
	setField(t, e.router, operator, "sex", "Hombre")
	setField(t, e.router, operator, "birth_date", "02/01/1975")
	setField(t, e.router, operator, "birth_department", "1")
	setField(t, e.router, operator, "birth_municipality", "8")

	setField(t, e.router, operator, "institution", "10")
	setField(t, e.router, operator, "program", e.programID.String())
	setField(t, e.router, operator, "benefit", e.benefitID.String())
	setField(t, e.router, operator, "delivery_department", "1")
	setField(t, e.router, operator, "delivery_municipality", "1")
	setField(t, e.router, operator, "delivery_date", "2025-06-10")
	setField(t, e.router, operator, "value", "300")
	setField(t, e.router, operator, "reference", "ACTA-044")

	rec := doJSON(t, e.router, http.MethodPost, "/api/entregas/session/submit", operator, nil)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	var record struct {
		SexCode   int    `json:"sex_code"`
		BirthDate string `json:"birth_date"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, 1, record.SexCode)
	assert.Equal(t, "1975-01-02", record.BirthDate)
}

func TestRegistryOutageKeepsSessionUsable(t *testing.T) {
	e := setup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	operator := login(t, e.router, "operator1")

	sess := decodeSession(t, doJSON(t, e.router, http.MethodPut, "/api/entregas/session/identifier", operator,
		map[string]string{"value": testutil.TestCUI}))
	assert.Equal(t, "idle", sess.State)
	assert.Contains(t, sess.Message, "No fue posible consultar el registro")

	// Confirming in this state is a conflict, not a crash.
	rec := doJSON(t, e.router, http.MethodPost, "/api/entregas/session/confirm", operator, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
