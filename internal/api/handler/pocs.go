package handler

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/aegis-admin-api/internal/domain"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/trial"
	"github.com/vfg2006/aegis-admin-api/pkg/apiErrors"
)

func pocID(r *http.Request) string {
	return httprouter.ParamsFromContext(r.Context()).ByName("id")
}

// EngagementClassifier traduz o engagement_score na faixa exibida no painel
type EngagementClassifier interface {
	ClassifyEngagement(score int) domain.RiskTier
}

type pocResponse struct {
	*domain.POC
	EngagementTier domain.RiskTier `json:"engagement_tier"`
}

func newPOCResponse(poc *domain.POC, engagement EngagementClassifier) pocResponse {
	return pocResponse{POC: poc, EngagementTier: engagement.ClassifyEngagement(poc.EngagementScore)}
}

func writePOC(w http.ResponseWriter, status int, poc *domain.POC, engagement EngagementClassifier) {
	setETag(w, poc.Version)
	writeJSON(w, status, newPOCResponse(poc, engagement))
}

// mutationOptions converte o If-Match em IfVersion para repetições seguras do cliente
func mutationOptions(w http.ResponseWriter, r *http.Request) ([]trial.MutationOption, bool) {
	version, err := parseIfMatch(r)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
		return nil, false
	}
	if version == nil {
		return nil, true
	}
	return []trial.MutationOption{trial.IfVersion(*version)}, true
}

func ListPOCs(service trial.TrialService, engagement EngagementClassifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		filters := domain.POCFilters{
			Owner:  strings.TrimSpace(query.Get("owner")),
			Search: strings.TrimSpace(query.Get("search")),
		}
		for _, status := range splitList(query.Get("status")) {
			filters.Statuses = append(filters.Statuses, domain.POCStatus(status))
		}

		pocs, err := service.ListPOCs(r.Context(), filters)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		resp := make([]pocResponse, 0, len(pocs))
		for _, poc := range pocs {
			resp = append(resp, newPOCResponse(poc, engagement))
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

func CreatePOC(service trial.TrialService, engagement EngagementClassifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.CreatePOCRequest
		if !decodeBody(w, r, &req) {
			return
		}

		poc, err := service.CreatePOC(r.Context(), &req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		w.Header().Set("Location", "/v1/admin/pocs/"+poc.ID)
		writePOC(w, http.StatusCreated, poc, engagement)
	})
}

func POCStats(service trial.TrialService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stats, err := service.Stats(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, stats)
	})
}

func GetPOC(service trial.TrialService, engagement EngagementClassifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		poc, err := service.GetPOC(r.Context(), pocID(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writePOC(w, http.StatusOK, poc, engagement)
	})
}

func ExtendPOC(service trial.TrialService, engagement EngagementClassifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		opts, ok := mutationOptions(w, r)
		if !ok {
			return
		}

		poc, err := service.ExtendPOC(r.Context(), pocID(r), opts...)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writePOC(w, http.StatusOK, poc, engagement)
	})
}

func ConvertPOC(service trial.TrialService, engagement EngagementClassifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		opts, ok := mutationOptions(w, r)
		if !ok {
			return
		}

		poc, err := service.ConvertPOC(r.Context(), pocID(r), opts...)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writePOC(w, http.StatusOK, poc, engagement)
	})
}

func TickPOC(service trial.TrialService, engagement EngagementClassifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.TickRequest
		if !decodeBody(w, r, &req) {
			return
		}

		poc, err := service.TickPOC(r.Context(), pocID(r), req.ElapsedDays)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writePOC(w, http.StatusOK, poc, engagement)
	})
}

func RecordUsage(service trial.TrialService, engagement EngagementClassifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.RecordUsageRequest
		if !decodeBody(w, r, &req) {
			return
		}

		poc, err := service.RecordUsage(r.Context(), pocID(r), &req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writePOC(w, http.StatusOK, poc, engagement)
	})
}

func RecordEngagement(service trial.TrialService, engagement EngagementClassifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.EngagementRequest
		if !decodeBody(w, r, &req) {
			return
		}

		poc, err := service.RecordEngagement(r.Context(), pocID(r), req.Score)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writePOC(w, http.StatusOK, poc, engagement)
	})
}

func CleanupExpiredPOCs(service trial.TrialService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		removed, err := service.CleanupExpired(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, domain.CleanupResponse{CountRemoved: removed})
	})
}
