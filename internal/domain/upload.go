package domain

// Kinds de ingestão aceitos no upload. Kind vazio é tratado como ingestão
// de vouchers (comportamento padrão do agente).
const (
	KindSalesByCustomer = "sales_by_customer"
	KindVouchers        = "vouchers"
)

// Period é a janela de referência de um upload de vendas ('YYYY-MM-DD').
type Period struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// UploadPayload é o corpo do POST /api/agent/upload. O agente em algumas
// versões envia company e em outras companyName.
type UploadPayload struct {
	AgentID     string           `json:"agentId"`
	Company     string           `json:"company"`
	CompanyName string           `json:"companyName"`
	TS          string           `json:"ts"`
	Kind        string           `json:"kind"`
	Period      *Period          `json:"period"`
	Rows        []map[string]any `json:"rows"`
	Data        any              `json:"data"`
}

// UploadResult é o resultado de um upload processado com sucesso.
type UploadResult struct {
	Inserted int64  `json:"inserted"`
	Note     string `json:"note,omitempty"`
}
