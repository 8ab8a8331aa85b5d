package repository

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrVersionConflict indica que a versão gravada mudou desde a leitura
	ErrVersionConflict = errors.New("version conflict")
	// ErrDuplicateID indica que já existe uma entidade com o mesmo identificador
	ErrDuplicateID = errors.New("duplicate id")
)

const uniqueViolation = "23505"

// rowScanner é satisfeito por *sql.Row e *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
