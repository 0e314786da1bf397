package domain

import "errors"

const (
	RoleLabWorker = "laborista"
	RolePatient   = "paciente"
)

// User models a registered account. Accounts are created at registration and
// never deleted in the normal flow; the role is fixed by the access code
// consumed when the account was created.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"nombre_usuario" db:"nombre_usuario"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"tipo_usuario" db:"tipo_usuario"`
}

// AccessCode maps a registration code to the role it grants. Codes are
// resolved read-only; resolution never consumes them.
type AccessCode struct {
	Code string `db:"codigo"`
	Role string `db:"tipo_usuario"`
}

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidAccessCode = errors.New("invalid access code")
