package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/authenticating"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/scoring"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/trial"
	"github.com/vfg2006/aegis-admin-api/pkg/apiErrors"
	"github.com/vfg2006/aegis-admin-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.L.WithError(err).Warn("Erro ao codificar resposta")
	}
}

// decodeBody rejeita campos desconhecidos para que erros de digitação não virem deltas zerados
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		log.ForContext(r.Context()).WithError(err).Warn("Corpo da requisição inválido")
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
		return false
	}
	return true
}

// writeServiceError traduz os erros dos casos de uso para a resposta padronizada
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.ForContext(r.Context()).WithError(err)

	var (
		trialErr     *trial.TrialError
		breakdownErr *scoring.BreakdownError
		authErr      *authenticating.AuthError
	)

	switch {
	case errors.As(err, &trialErr):
		logger.WithField("poc_id", trialErr.POCID).Warn("Operação de POC rejeitada")
		apiErrors.WriteError(w, trialErr.Code, trialErr.Error(), trialDetails(trialErr))

	case errors.As(err, &breakdownErr):
		logger.Warn("Operação de saúde rejeitada")
		var details any
		if breakdownErr.Factor != "" {
			details = map[string]string{"factor": breakdownErr.Factor}
		}
		apiErrors.WriteError(w, breakdownErr.Code, breakdownErr.Error(), details)

	case errors.As(err, &authErr):
		logger.Warn("Autenticação rejeitada")
		apiErrors.WriteError(w, authErr.Code, authErr.Err.Error(), nil)

	default:
		logger.Error("Erro não mapeado")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
	}
}

func trialDetails(err *trial.TrialError) any {
	if err.POCID == "" {
		return nil
	}
	return map[string]string{"poc_id": err.POCID}
}

func setETag(w http.ResponseWriter, version int64) {
	w.Header().Set("ETag", fmt.Sprintf("%q", strconv.FormatInt(version, 10)))
}

// parseIfMatch aceita "3", 3 e W/"3"; ausente devolve nil
func parseIfMatch(r *http.Request) (*int64, error) {
	raw := strings.TrimSpace(r.Header.Get("If-Match"))
	if raw == "" {
		return nil, nil
	}

	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)

	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || version < 1 {
		return nil, fmt.Errorf("If-Match inválido: %q", r.Header.Get("If-Match"))
	}
	return &version, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	values := make([]string, 0)
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
