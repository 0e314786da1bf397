package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vamilabs/labrecords-api/internal/core/domain"
	"github.com/vamilabs/labrecords-api/internal/core/ports"
)

// stubPatientService lets each test plug in only the method it exercises.
type stubPatientService struct {
	createFn     func(ctx context.Context, in ports.PatientInput) (int64, error)
	updateFn     func(ctx context.Context, id int64, in ports.PatientInput) error
	deleteFn     func(ctx context.Context, id int64) error
	listFn       func(ctx context.Context, orderByName bool) ([]domain.Patient, error)
	avgFn        func(ctx context.Context) (*float64, error)
	myRecordsFn  func(ctx context.Context, username string) ([]domain.Patient, error)
	addColumnFn  func(ctx context.Context, actor, column string) error
	dropColumnFn func(ctx context.Context, actor, column string) error
}

func (s *stubPatientService) Create(ctx context.Context, in ports.PatientInput) (int64, error) {
	return s.createFn(ctx, in)
}

func (s *stubPatientService) Update(ctx context.Context, id int64, in ports.PatientInput) error {
	return s.updateFn(ctx, id, in)
}

func (s *stubPatientService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func (s *stubPatientService) List(ctx context.Context, orderByName bool) ([]domain.Patient, error) {
	return s.listFn(ctx, orderByName)
}

func (s *stubPatientService) Count(context.Context) (int64, error) { return 0, nil }

func (s *stubPatientService) AverageAge(ctx context.Context) (*float64, error) {
	return s.avgFn(ctx)
}

func (s *stubPatientService) Search(context.Context, string) ([]domain.Patient, error) {
	return nil, nil
}

func (s *stubPatientService) MyRecords(ctx context.Context, username string) ([]domain.Patient, error) {
	return s.myRecordsFn(ctx, username)
}

func (s *stubPatientService) BloodTestAdults(context.Context) ([]domain.Patient, error) {
	return nil, nil
}

func (s *stubPatientService) ListUsers(context.Context) ([]domain.User, error) { return nil, nil }

func (s *stubPatientService) AddColumn(ctx context.Context, actor, column string) error {
	return s.addColumnFn(ctx, actor, column)
}

func (s *stubPatientService) DropColumn(ctx context.Context, actor, column string) error {
	return s.dropColumnFn(ctx, actor, column)
}

func TestPatientHandler_Create_Success(t *testing.T) {
	e := newEcho()
	stub := &stubPatientService{
		createFn: func(_ context.Context, in ports.PatientInput) (int64, error) {
			if in.Nombre != "Ana Lopez" || in.Edad != 30 || in.TipoPrueba != "sangre" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return 5, nil
		},
	}
	h := NewPatientHandler(stub)

	body := strings.NewReader(`{"name":"Ana Lopez","age":30,"email":"ana@example.com","tipo_prueba":"sangre","fecha_registro":"2024-06-01"}`)
	req := httptest.NewRequest(http.MethodPost, "/submit-data", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Ana Lopez guardado") {
		t.Errorf("confirmation message missing: %s", rec.Body.String())
	}
}

func TestPatientHandler_Create_AgeZero(t *testing.T) {
	e := newEcho()
	stub := &stubPatientService{
		createFn: func(_ context.Context, in ports.PatientInput) (int64, error) {
			if in.Edad != 0 {
				t.Fatalf("expected age 0, got %d", in.Edad)
			}
			return 6, nil
		},
	}
	h := NewPatientHandler(stub)

	// Newborns are valid patients; age zero must pass validation.
	body := strings.NewReader(`{"name":"Bebe Lopez","age":0,"email":"tutor@example.com","tipo_prueba":"sangre","fecha_registro":"2024-06-01"}`)
	req := httptest.NewRequest(http.MethodPost, "/submit-data", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestPatientHandler_Create_NegativeAge(t *testing.T) {
	e := newEcho()
	stub := &stubPatientService{
		createFn: func(context.Context, ports.PatientInput) (int64, error) {
			t.Fatal("service must not be called for a negative age")
			return 0, nil
		},
	}
	h := NewPatientHandler(stub)

	body := strings.NewReader(`{"name":"Ana","age":-1,"email":"ana@example.com","tipo_prueba":"sangre","fecha_registro":"2024-06-01"}`)
	req := httptest.NewRequest(http.MethodPost, "/submit-data", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestPatientHandler_Create_MissingName(t *testing.T) {
	e := newEcho()
	stub := &stubPatientService{
		createFn: func(context.Context, ports.PatientInput) (int64, error) {
			t.Fatal("service must not be called for an invalid payload")
			return 0, nil
		},
	}
	h := NewPatientHandler(stub)

	body := strings.NewReader(`{"age":30,"tipo_prueba":"sangre"}`)
	req := httptest.NewRequest(http.MethodPost, "/submit-data", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestPatientHandler_List_OrderFlag(t *testing.T) {
	e := newEcho()
	var gotOrder bool
	stub := &stubPatientService{
		listFn: func(_ context.Context, orderByName bool) ([]domain.Patient, error) {
			gotOrder = orderByName
			return []domain.Patient{}, nil
		},
	}
	h := NewPatientHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/pacientes?orden=nombre", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !gotOrder {
		t.Error("?orden=nombre must request name-ascending order")
	}

	req = httptest.NewRequest(http.MethodGet, "/pacientes", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	_ = h.List(c)
	if gotOrder {
		t.Error("without ?orden=nombre the order flag must stay off")
	}
}

func TestPatientHandler_AverageAge_NullOnEmpty(t *testing.T) {
	e := newEcho()
	stub := &stubPatientService{
		avgFn: func(context.Context) (*float64, error) { return nil, nil },
	}
	h := NewPatientHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/edadprom", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.AverageAge(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	val, present := resp["edad_promedio"]
	if !present || val != nil {
		t.Errorf("empty table must report an explicit null, got %v", resp)
	}
}

func TestPatientHandler_MyRecords_UsesSessionUsername(t *testing.T) {
	e := newEcho()
	stub := &stubPatientService{
		myRecordsFn: func(_ context.Context, username string) ([]domain.Patient, error) {
			if username != "Ana Lopez" {
				t.Fatalf("expected session username, got %q", username)
			}
			return []domain.Patient{{ID: 1, Nombre: username}}, nil
		},
	}
	h := NewPatientHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/ver-mis-datos", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("username", "Ana Lopez")
	c.Set("role", domain.RolePatient)

	if err := h.MyRecords(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPatientHandler_MyRecords_NoIdentity(t *testing.T) {
	e := newEcho()
	stub := &stubPatientService{
		myRecordsFn: func(context.Context, string) ([]domain.Patient, error) {
			t.Fatal("service must not be called without a session identity")
			return nil, nil
		},
	}
	h := NewPatientHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/ver-mis-datos", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.MyRecords(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestPatientHandler_Delete_NotFound(t *testing.T) {
	e := newEcho()
	stub := &stubPatientService{
		deleteFn: func(context.Context, int64) error { return domain.ErrPatientNotFound },
	}
	h := NewPatientHandler(stub)

	body := strings.NewReader(`{"id":99}`)
	req := httptest.NewRequest(http.MethodPost, "/eliminar-paciente", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Delete(c)
	if !errors.Is(err, domain.ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound to pass through, got %v", err)
	}
}

func TestPatientHandler_AddColumn_PassesActor(t *testing.T) {
	e := newEcho()
	stub := &stubPatientService{
		addColumnFn: func(_ context.Context, actor, column string) error {
			if actor != "laborista1" || column != "telefono" {
				t.Fatalf("unexpected args: %s %s", actor, column)
			}
			return nil
		},
	}
	h := NewPatientHandler(stub)

	body := strings.NewReader(`{"columna":"telefono"}`)
	req := httptest.NewRequest(http.MethodPost, "/insertar-columna", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("username", "laborista1")
	c.Set("role", domain.RoleLabWorker)

	if err := h.AddColumn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPatientHandler_DropColumn_RegistryRejection(t *testing.T) {
	e := newEcho()
	stub := &stubPatientService{
		dropColumnFn: func(context.Context, string, string) error {
			return domain.ErrColumnNotAllowed
		},
	}
	h := NewPatientHandler(stub)

	body := strings.NewReader(`{"columna":"passwords"}`)
	req := httptest.NewRequest(http.MethodPost, "/eliminar-columna", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("username", "laborista1")
	c.Set("role", domain.RoleLabWorker)

	err := h.DropColumn(c)
	if !errors.Is(err, domain.ErrColumnNotAllowed) {
		t.Fatalf("expected ErrColumnNotAllowed to pass through, got %v", err)
	}
}
