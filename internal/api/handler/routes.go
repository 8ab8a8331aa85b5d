package handler

import (
	"net/http"

	"github.com/vfg2006/aegis-admin-api/internal/api/handler/router"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/authenticating"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/scoring"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/trial"
	"github.com/vfg2006/aegis-admin-api/pkg/metrics"
	"github.com/vfg2006/aegis-admin-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Metrics(m *metrics.Metrics) []router.Route {
	if m == nil {
		return nil
	}
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: m.Handler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Health(service scoring.HealthService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/admin/health",
			Method:      http.MethodGet,
			Handler:     ListHealth(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/admin/health-summary",
			Method:      http.MethodGet,
			Handler:     HealthSummary(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/admin/health/:org_id",
			Method:      http.MethodGet,
			Handler:     GetHealth(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/admin/health/:org_id",
			Method:      http.MethodPut,
			Handler:     RefreshHealth(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.HealthOperators()},
		},
		{
			Path:        "/v1/admin/health/score",
			Method:      http.MethodPost,
			Handler:     ScorePreview(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func POCs(service trial.TrialService, engagement EngagementClassifier) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/admin/pocs",
			Method:      http.MethodGet,
			Handler:     ListPOCs(service, engagement),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/admin/pocs",
			Method:      http.MethodPost,
			Handler:     CreatePOC(service, engagement),
			Middlewares: []func(http.Handler) http.Handler{middleware.TrialOperators()},
		},
		{
			Path:        "/v1/admin/pocs-stats",
			Method:      http.MethodGet,
			Handler:     POCStats(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/admin/pocs/expired",
			Method:      http.MethodDelete,
			Handler:     CleanupExpiredPOCs(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.TrialOperators()},
		},
		{
			Path:        "/v1/admin/pocs/:id",
			Method:      http.MethodGet,
			Handler:     GetPOC(service, engagement),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/admin/pocs/:id/extend",
			Method:      http.MethodPost,
			Handler:     ExtendPOC(service, engagement),
			Middlewares: []func(http.Handler) http.Handler{middleware.TrialOperators()},
		},
		{
			Path:        "/v1/admin/pocs/:id/convert",
			Method:      http.MethodPost,
			Handler:     ConvertPOC(service, engagement),
			Middlewares: []func(http.Handler) http.Handler{middleware.TrialOperators()},
		},
		{
			Path:        "/v1/admin/pocs/:id/tick",
			Method:      http.MethodPost,
			Handler:     TickPOC(service, engagement),
			Middlewares: []func(http.Handler) http.Handler{middleware.TrialOperators()},
		},
		{
			Path:        "/v1/admin/pocs/:id/usage",
			Method:      http.MethodPost,
			Handler:     RecordUsage(service, engagement),
			Middlewares: []func(http.Handler) http.Handler{middleware.TrialOperators()},
		},
		{
			Path:        "/v1/admin/pocs/:id/engagement",
			Method:      http.MethodPost,
			Handler:     RecordEngagement(service, engagement),
			Middlewares: []func(http.Handler) http.Handler{middleware.TrialOperators()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
