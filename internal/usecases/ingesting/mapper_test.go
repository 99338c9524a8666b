package ingesting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/agent-ingest-api/internal/domain"
)

func TestToVoucherRecord(t *testing.T) {
	ts := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("campos em maiúsculas são preferidos", func(t *testing.T) {
		voucher := domain.Voucher{
			"DATE":            "20240115",
			"VOUCHERNUMBER":   "INV-42",
			"VOUCHERTYPENAME": "Sales",
			"vouchernumber":   "ignored",
		}

		record := ToVoucherRecord(voucher, "Acme Ltd", "agent-1", ts)

		assert.Equal(t, "Acme Ltd", record.Company)
		assert.Equal(t, "agent-1", record.AgentID)
		assert.Equal(t, "Acme Ltd|2024-01-15|INV-42", record.UniqueKey)
		assert.Equal(t, "2024-01-15", *record.VoucherDate)
		assert.Equal(t, "INV-42", *record.VoucherNumber)
		assert.Equal(t, "Sales", *record.VoucherType)
	})

	t.Run("variantes em minúsculas servem de fallback", func(t *testing.T) {
		voucher := domain.Voucher{
			"date":          "15-01-2024",
			"vouchernumber": "INV-43",
		}

		record := ToVoucherRecord(voucher, "Acme Ltd", "agent-1", ts)

		assert.Equal(t, "Acme Ltd|2024-01-15|INV-43", record.UniqueKey)
		assert.Equal(t, "2024-01-15", *record.VoucherDate)
		assert.Nil(t, record.VoucherType)
	})

	t.Run("unique_key é determinística para a mesma tripla", func(t *testing.T) {
		voucher := domain.Voucher{"DATE": "20240115", "VOUCHERNUMBER": "INV-42"}

		first := ToVoucherRecord(voucher, "Acme Ltd", "agent-1", ts)
		second := ToVoucherRecord(voucher, "Acme Ltd", "agent-2", ts.Add(time.Hour))

		assert.Equal(t, first.UniqueKey, second.UniqueKey)
	})

	t.Run("data não reconhecida entra crua na chave e a canônica fica ausente", func(t *testing.T) {
		voucher := domain.Voucher{"DATE": "Jan 15", "VOUCHERNUMBER": "INV-44"}

		record := ToVoucherRecord(voucher, "Acme Ltd", "agent-1", ts)

		assert.Equal(t, "Acme Ltd|Jan 15|INV-44", record.UniqueKey)
		assert.Nil(t, record.VoucherDate)
	})

	t.Run("sem data a chave usa o timestamp do upload", func(t *testing.T) {
		voucher := domain.Voucher{"VOUCHERNUMBER": "INV-45"}

		record := ToVoucherRecord(voucher, "Acme Ltd", "agent-1", ts)

		assert.Equal(t, "Acme Ltd|"+ts.Format(time.RFC3339)+"|INV-45", record.UniqueKey)
	})

	t.Run("sem número o token aleatório evita colisão", func(t *testing.T) {
		voucher := domain.Voucher{"DATE": "20240115"}

		first := ToVoucherRecord(voucher, "Acme Ltd", "agent-1", ts)
		second := ToVoucherRecord(voucher, "Acme Ltd", "agent-1", ts)

		assert.NotEqual(t, first.UniqueKey, second.UniqueKey)
		assert.True(t, strings.Contains(first.UniqueKey, "|rand-"))
		assert.Nil(t, first.VoucherNumber)
	})

	t.Run("números numéricos viram string sem casas espúrias", func(t *testing.T) {
		voucher := domain.Voucher{"DATE": "20240115", "VOUCHERNUMBER": 42.0}

		record := ToVoucherRecord(voucher, "Acme Ltd", "agent-1", ts)

		assert.Equal(t, "Acme Ltd|2024-01-15|42", record.UniqueKey)
		assert.Equal(t, "42", *record.VoucherNumber)
	})
}

func TestMapSalesRows(t *testing.T) {
	period := domain.Period{From: "2024-01-01", To: "2024-01-31"}

	t.Run("linhas TitleCase viram snake_case", func(t *testing.T) {
		rows := []map[string]any{
			{"Customer": "Acme", "TotalSales": 1234.5, "Lines": 3.0},
		}

		records := MapSalesRows("Acme Ltd", period, rows)

		assert.Equal(t, []domain.SalesRow{
			{
				Company:    "Acme Ltd",
				PeriodFrom: "2024-01-01",
				PeriodTo:   "2024-01-31",
				Customer:   "Acme",
				TotalSales: 1234.5,
				Lines:      3,
			},
		}, records)
	})

	t.Run("variantes minúsculas são aceitas", func(t *testing.T) {
		rows := []map[string]any{
			{"customer": "Beta", "total_sales": "200", "lines": 1.0},
		}

		records := MapSalesRows("Acme Ltd", period, rows)

		assert.Len(t, records, 1)
		assert.Equal(t, "Beta", records[0].Customer)
		assert.Equal(t, 200.0, records[0].TotalSales)
	})

	t.Run("linha sem cliente é descartada", func(t *testing.T) {
		rows := []map[string]any{
			{"TotalSales": 100.0, "Lines": 1.0},
			{"Customer": "Beta", "TotalSales": 50.0},
		}

		records := MapSalesRows("Acme Ltd", period, rows)

		assert.Len(t, records, 1)
		assert.Equal(t, "Beta", records[0].Customer)
	})

	t.Run("total com separador de milhar é descartado, não corrigido", func(t *testing.T) {
		rows := []map[string]any{
			{"Customer": "Acme", "TotalSales": "1,234.50", "Lines": 2.0},
		}

		assert.Empty(t, MapSalesRows("Acme Ltd", period, rows))
	})

	t.Run("total ausente vira zero e a linha é mantida", func(t *testing.T) {
		rows := []map[string]any{
			{"Customer": "Acme", "Lines": 2.0},
		}

		records := MapSalesRows("Acme Ltd", period, rows)

		assert.Len(t, records, 1)
		assert.Equal(t, 0.0, records[0].TotalSales)
	})

	t.Run("lines não coercível vira zero sem descartar a linha", func(t *testing.T) {
		rows := []map[string]any{
			{"Customer": "Acme", "TotalSales": 10.0, "Lines": "n/a"},
		}

		records := MapSalesRows("Acme Ltd", period, rows)

		assert.Len(t, records, 1)
		assert.Equal(t, 0.0, records[0].Lines)
	})
}
