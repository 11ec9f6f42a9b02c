package domain

import (
	"errors"
	"sort"
)

// Errores de dominio del libro de stock (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidScope      = errors.New("ámbito de stock inválido")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConflict          = errors.New("conflicto con el estado actual")
)

// Motivos del resolvedor de ámbitos.
const (
	ReasonNoLocation        = "no location declared"
	ReasonAmbiguousDelivery = "ambiguous delivery scope: set centralDepot or region"
	ReasonUnknownType       = "movement type does not resolve a scope"
)

// ScopeError describe por qué los campos de ubicación de un movimiento no
// resuelven un origen/destino. Envuelve ErrInvalidScope.
type ScopeError struct {
	Reason string
}

func (e *ScopeError) Error() string {
	return ErrInvalidScope.Error() + ": " + e.Reason
}

func (e *ScopeError) Unwrap() error { return ErrInvalidScope }

// NewScopeError construye un ScopeError con el motivo indicado.
func NewScopeError(reason string) error {
	return &ScopeError{Reason: reason}
}

// ValidationError agrupa los campos inválidos de una entrada. Envuelve ErrInvalidInput.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	msg := ErrInvalidInput.Error() + ":"
	for _, f := range sortedKeys(e.Fields) {
		msg += " " + f + " (" + e.Fields[f] + ")"
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError de un único campo.
func NewValidationError(field, rule string) error {
	return &ValidationError{Fields: map[string]string{field: rule}}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
