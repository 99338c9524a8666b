package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agent-ingest-api/internal/scheduler"
	"github.com/vfg2006/agent-ingest-api/pkg/apiErrors"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeIngestionReport = "ingestion-report"
	CronJobTypeAll             = "all"
)

// CronJobServices contém os serviços de cron disponíveis para execução manual
type CronJobServices struct {
	IngestionReportService *scheduler.IngestionReportService
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado")
			return
		}

		switch cronType {
		case CronJobTypeIngestionReport, CronJobTypeAll:
			if services.IngestionReportService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de relatório de ingestão não disponível")
				return
			}
			services.IngestionReportService.TriggerManualReport()
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: ingestion-report, all")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{
			"ingestion-report": services.IngestionReportService.GetStatus(),
		}

		writeJSON(w, http.StatusOK, status)
	}
}
