package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/aegis-admin-api/pkg/apiErrors"
	"github.com/vfg2006/aegis-admin-api/pkg/log"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeTrialSweep    = "trial-sweep"
	CronJobTypeHealthRescore = "health-rescore"
	CronJobTypeAll           = "all"
)

// CronJob é a superfície manual de um agendador
type CronJob interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	TrialSweepService    CronJob
	HealthRescoreService CronJob
}

func (s CronJobServices) jobs() map[string]CronJob {
	return map[string]CronJob{
		CronJobTypeTrialSweep:    s.TrialSweepService,
		CronJobTypeHealthRescore: s.HealthRescoreService,
	}
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")

		var selected []string
		switch cronType {
		case CronJobTypeTrialSweep, CronJobTypeHealthRescore:
			selected = []string{cronType}
		case CronJobTypeAll:
			selected = []string{CronJobTypeTrialSweep, CronJobTypeHealthRescore}
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: trial-sweep, health-rescore, all", nil)
			return
		}

		jobs := services.jobs()
		started := make(map[string]bool, len(selected))
		for _, name := range selected {
			job := jobs[name]
			if job == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de cron não disponível: "+name, nil)
				return
			}
			started[name] = job.TriggerManualSync()
		}

		log.ForContext(r.Context()).WithField("job", cronType).Info("Execução manual de cron solicitada")

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
			"started": started,
		})
	})
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]any)
		for name, job := range services.jobs() {
			if job != nil {
				status[name] = job.GetStatus()
			}
		}

		writeJSON(w, http.StatusOK, status)
	})
}
