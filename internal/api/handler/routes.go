package handler

import (
	"net/http"

	"github.com/vfg2006/agent-ingest-api/internal/api/handler/router"
	"github.com/vfg2006/agent-ingest-api/internal/usecases/ingesting"
	"github.com/vfg2006/agent-ingest-api/internal/usecases/summarizing"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Ingestion(service ingesting.IngestService) []router.Route {
	return []router.Route{
		{
			Path:    "/api/agent/upload",
			Method:  http.MethodPost,
			Handler: AgentUpload(service),
		},
	}
}

func Reporting(service summarizing.Summarizer) []router.Route {
	return []router.Route{
		{
			Path:    "/api/sales-summary",
			Method:  http.MethodGet,
			Handler: SalesSummary(service),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/api/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/api/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
