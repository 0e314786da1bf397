package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vamilabs/labrecords-api/internal/core/ports"
)

// PatientHandler handles patient CRUD, search, statistics, the self-service
// view, and the allow-listed schema changes.
type PatientHandler struct {
	service ports.PatientService
}

func NewPatientHandler(service ports.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

// Create handles POST /submit-data.
//
// @Summary      Create a patient record
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        body  body      patientRequest  true  "Patient fields"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  errorResponse
// @Router       /submit-data [post]
func (h *PatientHandler) Create(c echo.Context) error {
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.service.Create(c.Request().Context(), toPatientInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createdResponse{
		ID:      id,
		Message: fmt.Sprintf("Paciente %s guardado", req.Nombre),
	})
}

// Update handles POST /actualizar-paciente.
//
// @Summary      Update a patient record
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        body  body      updatePatientRequest  true  "Patient fields plus id"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  errorResponse
// @Router       /actualizar-paciente [post]
func (h *PatientHandler) Update(c echo.Context) error {
	var req updatePatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.Update(c.Request().Context(), req.ID, toPatientInput(req.patientRequest)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Paciente %s actualizado", req.Nombre),
	})
}

// Delete handles POST /eliminar-paciente. Deleting an id that is already gone
// returns 404, never a crash.
//
// @Summary      Delete a patient record
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        body  body      deletePatientRequest  true  "Patient id"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  errorResponse
// @Router       /eliminar-paciente [post]
func (h *PatientHandler) Delete(c echo.Context) error {
	var req deletePatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Request().Context(), req.ID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Paciente eliminado"})
}

// List handles GET /pacientes. With ?orden=nombre rows come back sorted
// name-ascending.
//
// @Summary      List patients
// @Tags         patients
// @Produce      json
// @Param        orden  query  string  false  "Set to nombre for name-ascending order"
// @Success      200  {array}  domain.Patient
// @Router       /pacientes [get]
func (h *PatientHandler) List(c echo.Context) error {
	orderByName := c.QueryParam("orden") == "nombre"
	patients, err := h.service.List(c.Request().Context(), orderByName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

// MyRecords handles GET /ver-mis-datos: the self-service view, matching rows
// whose nombre exactly equals the session username.
//
// @Summary      Current patient's own records
// @Tags         patients
// @Produce      json
// @Success      200  {array}   domain.Patient
// @Failure      401  {object}  errorResponse
// @Router       /ver-mis-datos [get]
func (h *PatientHandler) MyRecords(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	patients, err := h.service.MyRecords(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

// Search handles GET /buscar?query=. Matching is case-insensitive substring.
//
// @Summary      Search patients by name
// @Tags         patients
// @Produce      json
// @Param        query  query  string  true  "Name fragment"
// @Success      200  {array}  domain.Patient
// @Router       /buscar [get]
func (h *PatientHandler) Search(c echo.Context) error {
	patients, err := h.service.Search(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

// Count handles GET /contar-pacientes.
//
// @Summary      Count patients
// @Tags         patients
// @Produce      json
// @Success      200  {object}  countResponse
// @Router       /contar-pacientes [get]
func (h *PatientHandler) Count(c echo.Context) error {
	n, err := h.service.Count(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Total: n})
}

// AverageAge handles GET /edadprom. With no patients the response carries an
// explicit null, not a zero.
//
// @Summary      Average patient age
// @Tags         patients
// @Produce      json
// @Success      200  {object}  averageAgeResponse
// @Router       /edadprom [get]
func (h *PatientHandler) AverageAge(c echo.Context) error {
	avg, err := h.service.AverageAge(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, averageAgeResponse{EdadPromedio: avg})
}

// BloodTestView handles GET /pacientes-vista: blood-test patients aged 20+.
//
// @Summary      Blood-test patients of adult age
// @Tags         patients
// @Produce      json
// @Success      200  {array}  domain.Patient
// @Router       /pacientes-vista [get]
func (h *PatientHandler) BloodTestView(c echo.Context) error {
	patients, err := h.service.BloodTestAdults(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

// ListUsers handles GET /ver-usuarios.
//
// @Summary      List registered accounts
// @Tags         patients
// @Produce      json
// @Success      200  {array}  domain.User
// @Router       /ver-usuarios [get]
func (h *PatientHandler) ListUsers(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// AddColumn handles POST /insertar-columna. Only registry columns pass.
//
// @Summary      Add an optional patient column
// @Tags         schema
// @Accept       json
// @Produce      json
// @Param        body  body      columnRequest  true  "Column name"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  errorResponse
// @Router       /insertar-columna [post]
func (h *PatientHandler) AddColumn(c echo.Context) error {
	var req columnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.AddColumn(c.Request().Context(), username, req.Columna); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Columna %s agregada", req.Columna),
	})
}

// DropColumn handles POST /eliminar-columna. Only registry columns pass.
//
// @Summary      Drop an optional patient column
// @Tags         schema
// @Accept       json
// @Produce      json
// @Param        body  body      columnRequest  true  "Column name"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  errorResponse
// @Router       /eliminar-columna [post]
func (h *PatientHandler) DropColumn(c echo.Context) error {
	var req columnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.DropColumn(c.Request().Context(), username, req.Columna); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Columna %s eliminada", req.Columna),
	})
}

func toPatientInput(req patientRequest) ports.PatientInput {
	return ports.PatientInput{
		Nombre:        req.Nombre,
		Edad:          req.Edad,
		Correo:        req.Correo,
		TipoPrueba:    req.TipoPrueba,
		FechaRegistro: req.FechaRegistro,
	}
}
