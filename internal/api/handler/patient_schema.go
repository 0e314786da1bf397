package handler

// --- Request / Response types ---

type patientRequest struct {
	Nombre        string `json:"name"           form:"name"           validate:"required"`
	Edad          int    `json:"age"            form:"age"            validate:"gte=0"`
	Correo        string `json:"email"          form:"email"          validate:"required,email"`
	TipoPrueba    string `json:"tipo_prueba"    form:"tipo_prueba"    validate:"required"`
	FechaRegistro string `json:"fecha_registro" form:"fecha_registro" validate:"required"`
}

type updatePatientRequest struct {
	ID int64 `json:"id" form:"id" validate:"required,gt=0"`
	patientRequest
}

type deletePatientRequest struct {
	ID int64 `json:"id" form:"id" validate:"required,gt=0"`
}

type createdResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type countResponse struct {
	Total int64 `json:"total"`
}

// averageAgeResponse keeps the pointer so "no patients" serializes as an
// explicit null instead of zero.
type averageAgeResponse struct {
	EdadPromedio *float64 `json:"edad_promedio"`
}

type columnRequest struct {
	Columna string `json:"columna" form:"columna" validate:"required"`
}
