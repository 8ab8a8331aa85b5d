package scoring

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de saúde das organizações
var (
	// Erros de validação
	ErrInvalidBreakdown = errors.New("invalid factor breakdown")
	ErrInvalidPolicy    = errors.New("invalid scoring policy")
	ErrInvalidSnapshot  = errors.New("invalid organization snapshot")
	ErrOrgIDRequired    = errors.New("organization ID is required")

	// Erros de recurso
	ErrHealthNotFound = errors.New("health record not found")

	// Erros de banco de dados
	ErrDatabaseOperation = errors.New("database operation error")
)

// BreakdownError é um erro com contexto adicional sobre o fator rejeitado
type BreakdownError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Factor  string // Fator envolvido (quando aplicável)
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *BreakdownError) Error() string {
	msg := e.Err.Error()
	if e.Factor != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Factor)
	}
	if e.Details != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Details)
	}
	return msg
}

// Unwrap retorna o erro subjacente
func (e *BreakdownError) Unwrap() error {
	return e.Err
}

// NewBreakdownError cria um novo BreakdownError
func NewBreakdownError(err error, code string, details string) *BreakdownError {
	return &BreakdownError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewFactorError cria um novo BreakdownError apontando o fator inválido
func NewFactorError(err error, code string, factor string, details string) *BreakdownError {
	return &BreakdownError{
		Err:     err,
		Code:    code,
		Factor:  factor,
		Details: details,
	}
}
