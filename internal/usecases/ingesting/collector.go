package ingesting

import (
	"sort"

	"github.com/vfg2006/agent-ingest-api/internal/domain"
)

// voucherKey é a chave usada pelo export contábil para embutir transações
// em qualquer nível do payload.
const voucherKey = "VOUCHER"

// maxTraversalDepth limita a profundidade da varredura. O payload vem de
// fora e não dá para confiar na profundidade dele; nós abaixo do limite
// são ignorados.
const maxTraversalDepth = 64

type frame struct {
	node  any
	depth int
}

// CollectVouchers percorre o payload bruto e extrai todos os vouchers
// embutidos, independente do nível de aninhamento. A varredura é iterativa
// (pilha explícita, sem recursão) e visita as chaves de cada objeto em
// ordem alfabética para que a saída seja reprodutível. Valores sob VOUCHER
// podem ser um objeto ou uma lista de objetos; a busca continua nos filhos
// mesmo depois de encontrar a chave.
func CollectVouchers(root any) []domain.Voucher {
	vouchers := make([]domain.Voucher, 0)
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current.depth > maxTraversalDepth {
			continue
		}

		switch node := current.node.(type) {
		case map[string]any:
			if value, ok := node[voucherKey]; ok {
				vouchers = append(vouchers, expandVouchers(value)...)
			}

			keys := make([]string, 0, len(node))
			for key := range node {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			// Empilha em ordem reversa para visitar em ordem alfabética
			for i := len(keys) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: node[keys[i]], depth: current.depth + 1})
			}
		case []any:
			for i := len(node) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: node[i], depth: current.depth + 1})
			}
		}
	}

	return vouchers
}

// expandVouchers trata o valor sob VOUCHER como lista ou singleton.
// Elementos que não são objetos são descartados.
func expandVouchers(value any) []domain.Voucher {
	switch v := value.(type) {
	case []any:
		vouchers := make([]domain.Voucher, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				vouchers = append(vouchers, domain.Voucher(m))
			}
		}
		return vouchers
	case map[string]any:
		return []domain.Voucher{domain.Voucher(v)}
	default:
		return nil
	}
}
