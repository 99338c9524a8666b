package ingesting

import (
	"fmt"
	"time"

	"github.com/vfg2006/agent-ingest-api/internal/domain"
	"github.com/vfg2006/agent-ingest-api/pkg/utils"
)

// ToVoucherRecord achata um voucher bruto no registro de persistência.
// A unique_key é determinística para a tripla (company, data, número de
// voucher), o que torna o upsert idempotente no reenvio.
func ToVoucherRecord(voucher domain.Voucher, company, agentID string, ts time.Time) *domain.VoucherRecord {
	rawDate := voucher.StringField(domain.FieldDate)
	normalizedDate := utils.NormalizeDate(rawDate)

	datePart := normalizedDate
	if datePart == "" {
		datePart = rawDate
	}
	if datePart == "" {
		datePart = ts.Format(time.RFC3339)
	}

	number := voucher.StringField(domain.FieldVoucherNumber)
	keyPart := number
	if keyPart == "" {
		// Sem número não há chave natural: o token aleatório garante
		// unicidade, abrindo mão da deduplicação no reenvio.
		token, err := utils.GenerateToken()
		if err != nil {
			token = fmt.Sprintf("%d", ts.UnixNano())
		}
		keyPart = "rand-" + token
	}

	record := &domain.VoucherRecord{
		AgentID:   agentID,
		Company:   company,
		TS:        ts,
		UniqueKey: fmt.Sprintf("%s|%s|%s", company, datePart, keyPart),
		Payload:   voucher,
	}

	if normalizedDate != "" {
		record.VoucherDate = &normalizedDate
	}
	if number != "" {
		record.VoucherNumber = &number
	}
	if voucherType := voucher.StringField(domain.FieldVoucherType); voucherType != "" {
		record.VoucherType = &voucherType
	}

	return record
}

// MapSalesRows normaliza as linhas TitleCase do agente para o formato
// snake_case da tabela sales_by_customer. Linhas sem cliente ou com total
// não coercível são descartadas. A coerção é estrita, compatível com o
// Number() do agente original: "1,234.50" é inválido, não é corrigido.
func MapSalesRows(company string, period domain.Period, rows []map[string]any) []domain.SalesRow {
	records := make([]domain.SalesRow, 0, len(rows))

	for _, row := range rows {
		customer := domain.Stringify(firstOf(row, "Customer", "customer"))
		total, totalOK := utils.StrictNumber(firstOf(row, "TotalSales", "total_sales"))
		lines, linesOK := utils.StrictNumber(firstOf(row, "Lines", "lines"))
		if !linesOK {
			lines = 0
		}

		if customer == "" || !totalOK {
			continue
		}

		records = append(records, domain.SalesRow{
			Company:    company,
			PeriodFrom: period.From,
			PeriodTo:   period.To,
			Customer:   customer,
			TotalSales: total,
			Lines:      lines,
		})
	}

	return records
}

func firstOf(row map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := row[key]; ok && value != nil {
			return value
		}
	}
	return nil
}
