package summarizing

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agent-ingest-api/infrastructure/repository"
	"github.com/vfg2006/agent-ingest-api/internal/config"
	"github.com/vfg2006/agent-ingest-api/internal/domain"
	"github.com/vfg2006/agent-ingest-api/pkg/utils"
)

type Summarizer interface {
	SalesByCustomer(ctx context.Context, windowDays int) ([]*domain.CustomerSummary, error)
}

type Service struct {
	voucherRepo repository.VoucherRepository
	fetchLimit  uint64
	now         func() time.Time
}

func NewService(voucherRepo repository.VoucherRepository, cfg *config.Config) Summarizer {
	return &Service{
		voucherRepo: voucherRepo,
		fetchLimit:  cfg.Summary.FetchLimit,
		now:         time.Now,
	}
}

// SalesByCustomer agrega os vouchers da janela [hoje - windowDays, hoje]
// por cliente, ordenando por total decrescente. O teto de linhas buscadas
// é um limite de segurança herdado do serviço original: janelas com mais
// registros que o teto produzem um agregado parcial, sem aviso.
func (s *Service) SalesByCustomer(ctx context.Context, windowDays int) ([]*domain.CustomerSummary, error) {
	endDate := s.now()
	startDate := endDate.AddDate(0, 0, -windowDays)

	records, err := s.voucherRepo.ListByDateRange(ctx, startDate, endDate, s.fetchLimit)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar vouchers da janela")
	}

	totals := make(map[string]*domain.CustomerSummary)
	for _, record := range records {
		customer := record.Payload.StringField(domain.FieldParty)
		if customer == "" {
			customer = "Unknown"
		}

		summary, ok := totals[customer]
		if !ok {
			summary = &domain.CustomerSummary{Customer: customer}
			totals[customer] = summary
		}

		summary.Invoices++
		summary.Total += voucherAmount(record.Payload)
	}

	summaries := make([]*domain.CustomerSummary, 0, len(totals))
	for _, summary := range totals {
		summaries = append(summaries, summary)
	}

	// Empates ficam em ordem arbitrária
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Total > summaries[j].Total
	})

	logrus.WithFields(logrus.Fields{
		"window_days": windowDays,
		"vouchers":    len(records),
		"customers":   len(summaries),
	}).Debug("summary: agregação concluída")

	return summaries, nil
}

// voucherAmount soma os itens de inventário quando a lista existe e não é
// vazia; caso contrário usa o valor do próprio voucher. Valores não
// coercíveis contam como zero.
func voucherAmount(voucher domain.Voucher) float64 {
	if value, ok := voucher.Field(domain.FieldInventory); ok {
		if entries, ok := value.([]any); ok && len(entries) > 0 {
			var total float64
			for _, entry := range entries {
				if m, ok := entry.(map[string]any); ok {
					amount, _ := domain.Voucher(m).Field(domain.FieldAmount)
					total += utils.LenientAmount(amount)
				}
			}
			return total
		}
	}

	amount, _ := voucher.Field(domain.FieldAmount)
	return utils.LenientAmount(amount)
}
