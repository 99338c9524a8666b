package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/agent-ingest-api/internal/domain"
	"github.com/vfg2006/agent-ingest-api/internal/usecases/ingesting"
	"github.com/vfg2006/agent-ingest-api/pkg/log"
)

// Os payloads do agente chegam a alguns megabytes; jsoniter decodifica com
// menos alocações que encoding/json.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// UploadResponse é o envelope de sucesso do upload.
type UploadResponse struct {
	OK       bool   `json:"ok"`
	Inserted int64  `json:"inserted"`
	Note     string `json:"note,omitempty"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// AgentUpload recebe o payload exportado pelo agente e o encaminha ao
// serviço de ingestão. Falhas de persistência viram 500 com a mensagem
// repassada; payload de vendas incompleto vira 400.
func AgentUpload(service ingesting.IngestService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		payload := &domain.UploadPayload{}
		if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
			logger.WithError(err).Warn("upload: corpo da requisição inválido")
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
			return
		}

		result, err := service.Upload(r.Context(), payload)
		if err != nil {
			if errors.Is(err, ingesting.ErrMissingSalesFields) {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}

			logger.WithError(err).Error("upload: falha ao processar payload")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, UploadResponse{
			OK:       true,
			Inserted: result.Inserted,
			Note:     result.Note,
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.L.WithError(err).Error("erro ao codificar resposta JSON")
	}
}
