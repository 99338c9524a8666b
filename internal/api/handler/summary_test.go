package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/agent-ingest-api/internal/domain"
)

type stubSummarizer struct {
	rows    []*domain.CustomerSummary
	err     error
	gotDays int
}

func (s *stubSummarizer) SalesByCustomer(_ context.Context, windowDays int) ([]*domain.CustomerSummary, error) {
	s.gotDays = windowDays
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func TestSalesSummary(t *testing.T) {
	t.Run("resumo com janela informada responde 200", func(t *testing.T) {
		service := &stubSummarizer{
			rows: []*domain.CustomerSummary{
				{Customer: "Acme Ltd", Invoices: 2, Total: 500},
				{Customer: "Unknown", Invoices: 1, Total: 75},
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/api/sales-summary?days=7", nil)
		rec := httptest.NewRecorder()

		SalesSummary(service).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 7, service.gotDays)
		assert.JSONEq(t, `{
			"ok": true,
			"days": 7,
			"rows": [
				{"customer":"Acme Ltd","invoices":2,"total":500},
				{"customer":"Unknown","invoices":1,"total":75}
			]
		}`, rec.Body.String())
	})

	t.Run("sem parâmetro days usa a janela padrão de 30 dias", func(t *testing.T) {
		service := &stubSummarizer{rows: []*domain.CustomerSummary{}}

		req := httptest.NewRequest(http.MethodGet, "/api/sales-summary", nil)
		rec := httptest.NewRecorder()

		SalesSummary(service).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, defaultWindowDays, service.gotDays)
	})

	t.Run("days não numérico responde 400", func(t *testing.T) {
		service := &stubSummarizer{}

		req := httptest.NewRequest(http.MethodGet, "/api/sales-summary?days=abc", nil)
		rec := httptest.NewRecorder()

		SalesSummary(service).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, service.gotDays)
	})

	t.Run("days negativo responde 400", func(t *testing.T) {
		service := &stubSummarizer{}

		req := httptest.NewRequest(http.MethodGet, "/api/sales-summary?days=-5", nil)
		rec := httptest.NewRecorder()

		SalesSummary(service).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("falha do agregador responde 500", func(t *testing.T) {
		service := &stubSummarizer{err: errors.New("connection refused")}

		req := httptest.NewRequest(http.MethodGet, "/api/sales-summary?days=30", nil)
		rec := httptest.NewRecorder()

		SalesSummary(service).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"ok":false,"error":"connection refused"}`, rec.Body.String())
	})
}
