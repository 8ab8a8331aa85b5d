package trial

import (
	"errors"
	"fmt"
)

// Erros específicos para o ciclo de vida dos POCs
var (
	// Erros de validação
	ErrValidation = errors.New("validation error")

	// Erros de estado
	ErrInvalidTransition = errors.New("invalid transition")
	ErrFrozenEntity      = errors.New("frozen entity")

	// Erros de recurso
	ErrNotFound = errors.New("poc not found")

	// Erros de banco de dados
	ErrDatabaseOperation = errors.New("database operation error")
	ErrConcurrentUpdate  = errors.New("concurrent update")

	// Erros de geração de identificador
	ErrIDGeneration = errors.New("error generating poc id")
)

// TrialError é um erro com contexto adicional para POCs
type TrialError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	POCID   string // ID do POC envolvido (quando aplicável)
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *TrialError) Error() string {
	msg := e.Err.Error()
	if e.POCID != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.POCID)
	}
	if e.Details != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Details)
	}
	return msg
}

// Unwrap retorna o erro subjacente
func (e *TrialError) Unwrap() error {
	return e.Err
}

// NewTrialError cria um novo TrialError
func NewTrialError(err error, code string, details string) *TrialError {
	return &TrialError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewTrialErrorWithID cria um novo TrialError com ID do POC
func NewTrialErrorWithID(err error, code string, pocID string, details string) *TrialError {
	return &TrialError{
		Err:     err,
		Code:    code,
		POCID:   pocID,
		Details: details,
	}
}
