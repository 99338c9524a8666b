package domain

import "time"

// Nomes canônicos dos campos de um voucher. O export contábil não tem schema
// fixo, então cada campo canônico aceita uma lista ordenada de variantes.
const (
	FieldDate          = "date"
	FieldVoucherNumber = "voucher_number"
	FieldVoucherType   = "voucher_type"
	FieldParty         = "party_name"
	FieldAmount        = "amount"
	FieldInventory     = "inventory_entries"
)

// fieldVariants mapeia o nome canônico para as chaves aceitas no payload,
// em ordem de preferência (maiúsculas primeiro, depois minúsculas).
var fieldVariants = map[string][]string{
	FieldDate:          {"DATE", "Date", "date"},
	FieldVoucherNumber: {"VOUCHERNUMBER", "VoucherNumber", "vouchernumber", "voucher_number"},
	FieldVoucherType:   {"VOUCHERTYPENAME", "VoucherTypeName", "vouchertypename", "voucher_type"},
	FieldParty:         {"PARTYLEDGERNAME", "PartyLedgerName", "partyledgername", "party_name"},
	FieldAmount:        {"AMOUNT", "Amount", "amount"},
	FieldInventory:     {"ALLINVENTORYENTRIES.LIST", "INVENTORYENTRIES.LIST", "InventoryEntries", "inventory_entries"},
}

// Voucher é uma transação contábil bruta exportada pelo agente. As chaves
// chegam com capitalização inconsistente e são resolvidas via fieldVariants.
type Voucher map[string]any

// Field resolve um campo canônico percorrendo as variantes aceitas.
func (v Voucher) Field(name string) (any, bool) {
	for _, key := range fieldVariants[name] {
		if value, ok := v[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

// StringField resolve um campo canônico e o converte para string.
// Campos ausentes retornam string vazia.
func (v Voucher) StringField(name string) string {
	value, ok := v.Field(name)
	if !ok {
		return ""
	}
	return Stringify(value)
}

// VoucherRecord é a linha achatada persistida na tabela vouchers.
// UniqueKey é a identidade de deduplicação usada no upsert.
type VoucherRecord struct {
	AgentID       string    `json:"agent_id"`
	Company       string    `json:"company"`
	TS            time.Time `json:"ts"`
	VoucherDate   *string   `json:"voucher_date"`
	VoucherNumber *string   `json:"voucher_number"`
	VoucherType   *string   `json:"voucher_type"`
	UniqueKey     string    `json:"unique_key"`
	Payload       Voucher   `json:"payload"`
}

// CustomerSummary é uma linha do relatório agregado por cliente.
type CustomerSummary struct {
	Customer string  `json:"customer"`
	Invoices int     `json:"invoices"`
	Total    float64 `json:"total"`
}
