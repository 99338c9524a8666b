package handler

import (
	"net/http"
	"strconv"

	"github.com/vfg2006/agent-ingest-api/internal/domain"
	"github.com/vfg2006/agent-ingest-api/internal/usecases/summarizing"
	"github.com/vfg2006/agent-ingest-api/pkg/log"
)

const defaultWindowDays = 30

// SummaryResponse é o envelope de sucesso do resumo de vendas.
type SummaryResponse struct {
	OK   bool                      `json:"ok"`
	Days int                       `json:"days"`
	Rows []*domain.CustomerSummary `json:"rows"`
}

// SalesSummary devolve os totais por cliente da janela ?days=N (default 30).
func SalesSummary(service summarizing.Summarizer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		days := defaultWindowDays
		if raw := r.URL.Query().Get("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				logger.WithField("days", raw).Warn("summary: parâmetro days inválido")
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid days parameter"})
				return
			}
			days = parsed
		}

		rows, err := service.SalesByCustomer(r.Context(), days)
		if err != nil {
			logger.WithError(err).Error("summary: falha ao agregar vendas")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, SummaryResponse{
			OK:   true,
			Days: days,
			Rows: rows,
		})
	})
}
