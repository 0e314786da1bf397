package domain

import (
	"errors"
	"testing"
)

func TestPatientColumnType_Registered(t *testing.T) {
	typ, err := PatientColumnType("telefono")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typ != "VARCHAR(20)" {
		t.Errorf("wrong type for telefono: %q", typ)
	}
}

func TestPatientColumnType_RejectsAnythingElse(t *testing.T) {
	for _, name := range []string{
		"",
		"id",
		"nombre",
		"TELEFONO",
		"telefono; DROP TABLE pacientes",
		"telefono--",
	} {
		if _, err := PatientColumnType(name); !errors.Is(err, ErrColumnNotAllowed) {
			t.Errorf("PatientColumnType(%q): expected ErrColumnNotAllowed, got %v", name, err)
		}
		if PatientColumnAllowed(name) {
			t.Errorf("PatientColumnAllowed(%q) must be false", name)
		}
	}
}
