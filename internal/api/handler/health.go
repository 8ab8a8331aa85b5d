package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/aegis-admin-api/internal/domain"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/scoring"
	"github.com/vfg2006/aegis-admin-api/pkg/apiErrors"
)

// RefreshHealthRequest é o snapshot enviado pela ingestão; o org_id vem da rota
type RefreshHealthRequest struct {
	OrgID        string         `json:"org_id,omitempty"`
	OrgName      string         `json:"org_name"`
	Plan         domain.OrgPlan `json:"plan"`
	DAU          int            `json:"dau"`
	MAU          int            `json:"mau"`
	LastActiveAt *time.Time     `json:"last_active_at"`
	Scores       map[string]int `json:"scores"`
}

type ScorePreviewRequest struct {
	Breakdown domain.FactorBreakdown `json:"breakdown"`
}

type ScorePreviewResponse struct {
	Score             int                    `json:"score"`
	RiskTier          domain.RiskTier        `json:"risk_tier"`
	Breakdown         []domain.FactorView    `json:"breakdown"`
	TopRecommendation *domain.Recommendation `json:"top_recommendation"`
}

func ListHealth(service scoring.HealthService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		filters := domain.HealthFilters{
			Search: strings.TrimSpace(query.Get("search")),
			SortBy: domain.HealthSortField(query.Get("sort_by")),
		}

		if tier := query.Get("risk_tier"); tier != "" {
			riskTier := domain.RiskTier(tier)
			filters.RiskTier = &riskTier
		}

		switch order := strings.ToLower(query.Get("order")); order {
		case "", "desc":
		case "asc":
			filters.Asc = true
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "order deve ser asc ou desc", nil)
			return
		}

		records, err := service.ListHealth(r.Context(), filters)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		resp := make([]*domain.OrgHealthResponse, 0, len(records))
		for _, record := range records {
			resp = append(resp, record.Response())
		}

		writeJSON(w, http.StatusOK, resp)
	})
}

func HealthSummary(service scoring.HealthService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		summary, err := service.Summary(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, summary)
	})
}

func GetHealth(service scoring.HealthService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgID := httprouter.ParamsFromContext(r.Context()).ByName("org_id")

		record, err := service.GetHealth(r.Context(), orgID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, record.Response())
	})
}

func RefreshHealth(service scoring.HealthService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgID := httprouter.ParamsFromContext(r.Context()).ByName("org_id")

		var req RefreshHealthRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if req.OrgID != "" && req.OrgID != orgID {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "org_id do corpo difere da rota", nil)
			return
		}

		record, err := service.RefreshHealth(r.Context(), &domain.OrgSnapshot{
			OrgID:        orgID,
			OrgName:      req.OrgName,
			Plan:         req.Plan,
			DAU:          req.DAU,
			MAU:          req.MAU,
			LastActiveAt: req.LastActiveAt,
			Scores:       req.Scores,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, record.Response())
	})
}

// ScorePreview calcula a saúde de um breakdown arbitrário sem persistir
func ScorePreview(service scoring.HealthService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ScorePreviewRequest
		if !decodeBody(w, r, &req) {
			return
		}

		record, err := service.ScorePreview(req.Breakdown)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, ScorePreviewResponse{
			Score:             record.Score,
			RiskTier:          record.RiskTier,
			Breakdown:         record.Breakdown.View(),
			TopRecommendation: record.TopRecommendation,
		})
	})
}
