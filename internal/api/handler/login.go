package handler

import (
	"net/http"

	"github.com/vfg2006/aegis-admin-api/internal/domain"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/authenticating"
	"github.com/vfg2006/aegis-admin-api/pkg/apiErrors"
	"github.com/vfg2006/aegis-admin-api/pkg/middleware"
)

func Login(service authenticating.Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.LoginRequest
		if !decodeBody(w, r, &req) {
			return
		}

		resp, err := service.Login(req.Email, req.Password)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	})
}

// GetMe retorna o operador autenticado
func GetMe(service authenticating.Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.OperatorFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Operador não autenticado", nil)
			return
		}

		operator, err := service.GetOperator(claims.OperatorEmail)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, operator)
	})
}
