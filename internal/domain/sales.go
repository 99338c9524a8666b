package domain

// SalesRow é uma linha normalizada do resumo de vendas por cliente enviado
// pelo agente (kind "sales_by_customer"). Inserção simples, sem chave de
// deduplicação.
type SalesRow struct {
	Company    string  `json:"company"`
	PeriodFrom string  `json:"period_from"`
	PeriodTo   string  `json:"period_to"`
	Customer   string  `json:"customer"`
	TotalSales float64 `json:"total_sales"`
	Lines      float64 `json:"lines"`
}
