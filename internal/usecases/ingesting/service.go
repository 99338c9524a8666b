package ingesting

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agent-ingest-api/infrastructure/repository"
	"github.com/vfg2006/agent-ingest-api/internal/domain"
)

// ErrMissingSalesFields é devolvido quando um upload de vendas não traz os
// campos obrigatórios. O handler converte em 400; a mensagem é a mesma que
// o agente já conhece.
var ErrMissingSalesFields = errors.New("company, period.from, period.to and rows are required")

type IngestService interface {
	Upload(ctx context.Context, payload *domain.UploadPayload) (*domain.UploadResult, error)
}

type Service struct {
	voucherRepo repository.VoucherRepository
	salesRepo   repository.SalesRepository
	now         func() time.Time
}

func NewService(
	voucherRepo repository.VoucherRepository,
	salesRepo repository.SalesRepository,
) IngestService {
	return &Service{
		voucherRepo: voucherRepo,
		salesRepo:   salesRepo,
		now:         time.Now,
	}
}

// Upload despacha o payload pelo kind: "sales_by_customer" segue o caminho
// de vendas, kind vazio ou "vouchers" segue o caminho de vouchers e
// qualquer outro kind é ignorado com uma nota (o agente pode estar à frente
// do servidor).
func (s *Service) Upload(ctx context.Context, payload *domain.UploadPayload) (*domain.UploadResult, error) {
	company := payload.Company
	if company == "" {
		company = payload.CompanyName
	}
	if company == "" {
		company = "unknown"
	}

	logrus.WithFields(logrus.Fields{
		"kind":    payload.Kind,
		"company": company,
		"rows":    len(payload.Rows),
	}).Info("upload: payload recebido do agente")

	switch payload.Kind {
	case domain.KindSalesByCustomer:
		return s.uploadSales(ctx, company, payload)
	case "", domain.KindVouchers:
		return s.uploadVouchers(ctx, company, payload)
	default:
		logrus.WithField("kind", payload.Kind).Info("upload: nenhum handler para este kind")
		return &domain.UploadResult{Note: "no handler for this kind"}, nil
	}
}

func (s *Service) uploadSales(ctx context.Context, company string, payload *domain.UploadPayload) (*domain.UploadResult, error) {
	if payload.Company == "" || payload.Period == nil ||
		payload.Period.From == "" || payload.Period.To == "" || payload.Rows == nil {
		return nil, ErrMissingSalesFields
	}

	records := MapSalesRows(company, *payload.Period, payload.Rows)
	if len(records) == 0 {
		return &domain.UploadResult{Inserted: 0, Note: "no valid rows after normalization"}, nil
	}

	inserted, err := s.salesRepo.Insert(ctx, records)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao inserir linhas de vendas")
	}

	logrus.WithFields(logrus.Fields{
		"company":  company,
		"inserted": inserted,
		"dropped":  len(payload.Rows) - len(records),
	}).Info("upload: linhas de vendas persistidas")

	return &domain.UploadResult{Inserted: inserted}, nil
}

func (s *Service) uploadVouchers(ctx context.Context, company string, payload *domain.UploadPayload) (*domain.UploadResult, error) {
	ts := s.parseTimestamp(payload.TS)

	vouchers := CollectVouchers(payload.Data)
	if len(vouchers) == 0 {
		// Nenhum upload é descartado em silêncio: o payload inteiro vira
		// um registro bruto de depuração com chave sentinela.
		record := s.debugRecord(company, payload, ts)

		logrus.WithFields(logrus.Fields{
			"company":    company,
			"unique_key": record.UniqueKey,
		}).Warn("upload: nenhum voucher encontrado, persistindo payload bruto")

		if _, err := s.voucherRepo.Upsert(ctx, []*domain.VoucherRecord{record}); err != nil {
			return nil, errors.Wrap(err, "erro ao persistir registro de depuração")
		}

		return &domain.UploadResult{Inserted: 1, Note: "no vouchers found; stored raw payload"}, nil
	}

	records := make([]*domain.VoucherRecord, 0, len(vouchers))
	for _, voucher := range vouchers {
		records = append(records, ToVoucherRecord(voucher, company, payload.AgentID, ts))
	}

	inserted, err := s.voucherRepo.Upsert(ctx, records)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao persistir vouchers")
	}

	logrus.WithFields(logrus.Fields{
		"company":  company,
		"vouchers": len(records),
		"inserted": inserted,
	}).Info("upload: vouchers persistidos")

	return &domain.UploadResult{Inserted: inserted}, nil
}

func (s *Service) debugRecord(company string, payload *domain.UploadPayload, ts time.Time) *domain.VoucherRecord {
	return &domain.VoucherRecord{
		AgentID:   payload.AgentID,
		Company:   company,
		TS:        ts,
		UniqueKey: fmt.Sprintf("%s|%s|no-vouchers", company, ts.Format(time.RFC3339)),
		Payload: domain.Voucher{
			"agentId": payload.AgentID,
			"company": company,
			"ts":      payload.TS,
			"data":    payload.Data,
		},
	}
}

// parseTimestamp usa o ts do agente quando parseável; senão, a hora atual.
func (s *Service) parseTimestamp(raw string) time.Time {
	if raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts
		}
	}
	return s.now()
}
