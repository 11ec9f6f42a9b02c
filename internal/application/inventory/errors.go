package inventory

import "fmt"

// PostCommitError ajuste que falló después de persistir el movimiento.
// El movimiento no se revierte; la falla queda registrada para conciliación.
type PostCommitError struct {
	MovementID string
	Step       string
	Err        error
}

func (e *PostCommitError) Error() string {
	return fmt.Sprintf("movimiento %s persistido, ajuste %s fallido: %v", e.MovementID, e.Step, e.Err)
}

func (e *PostCommitError) Unwrap() error { return e.Err }
