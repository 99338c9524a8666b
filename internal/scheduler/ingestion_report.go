// Package scheduler contém os jobs agendados do serviço de ingestão
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agent-ingest-api/infrastructure/repository"
	"github.com/vfg2006/agent-ingest-api/internal/config"
)

type IngestionReportConfig struct {
	CronSchedule string
	Enabled      bool
}

// IngestionReportService loga diariamente o tamanho das tabelas de
// ingestão. É um job de observação: não altera dados.
type IngestionReportService struct {
	scheduler          *gocron.Scheduler
	voucherRepo        repository.VoucherRepository
	salesRepo          repository.SalesRepository
	config             IngestionReportConfig
	reportRunning      bool
	reportMutex        sync.Mutex
	lastRunStartedAt   time.Time
	lastRunCompletedAt time.Time
}

func NewIngestionReportService(
	voucherRepo repository.VoucherRepository,
	salesRepo repository.SalesRepository,
	cfg *config.Config,
) *IngestionReportService {
	reportConfig := IngestionReportConfig{
		CronSchedule: cfg.IngestionReport.CronSchedule, // Default: 7h da manhã todos os dias
		Enabled:      cfg.IngestionReport.Enabled,      // Default: desabilitado
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": reportConfig.CronSchedule,
	}).Info("Configuração do agendador do relatório de ingestão carregada")

	return &IngestionReportService{
		scheduler:   scheduler,
		voucherRepo: voucherRepo,
		salesRepo:   salesRepo,
		config:      reportConfig,
	}
}

func (s *IngestionReportService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Cron do relatório de ingestão desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron do relatório de ingestão")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.RunReport(ctx); err != nil {
			logrus.WithError(err).Error("Erro no relatório de ingestão")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar relatório de ingestão: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron do relatório de ingestão")
		s.scheduler.Stop()
	}()

	return nil
}

// RunReport conta as linhas das duas tabelas e loga os totais. Com o banco
// não configurado o job só avisa e termina sem erro.
func (s *IngestionReportService) RunReport(ctx context.Context) error {
	s.reportMutex.Lock()
	if s.reportRunning {
		s.reportMutex.Unlock()
		logrus.Warn("Relatório de ingestão já está em execução")
		return nil
	}
	s.reportRunning = true
	s.lastRunStartedAt = time.Now()
	s.reportMutex.Unlock()

	defer func() {
		s.reportMutex.Lock()
		s.reportRunning = false
		s.lastRunCompletedAt = time.Now()
		s.reportMutex.Unlock()
	}()

	vouchersTotal, err := s.voucherRepo.Count(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrUnavailable) {
			logrus.Warn("Relatório de ingestão pulado: banco de dados não configurado")
			return nil
		}
		return fmt.Errorf("erro ao contar vouchers: %w", err)
	}

	salesTotal, err := s.salesRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("erro ao contar linhas de vendas: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"vouchers":          vouchersTotal,
		"sales_by_customer": salesTotal,
	}).Info("Relatório diário de ingestão")

	return nil
}

// TriggerManualReport dispara o relatório fora do horário agendado.
func (s *IngestionReportService) TriggerManualReport() {
	s.reportMutex.Lock()
	if s.reportRunning {
		s.reportMutex.Unlock()
		logrus.Info("Relatório de ingestão já em andamento, ignorando solicitação manual")
		return
	}
	s.reportMutex.Unlock()

	logrus.Info("Iniciando relatório de ingestão manual")
	go func() {
		if err := s.RunReport(context.Background()); err != nil {
			logrus.WithError(err).Error("Erro no relatório de ingestão manual")
		}
	}()
}

// GetStatus retorna o status atual do agendador.
func (s *IngestionReportService) GetStatus() map[string]any {
	s.reportMutex.Lock()
	defer s.reportMutex.Unlock()

	return map[string]any{
		"enabled":               s.config.Enabled,
		"cron":                  s.config.CronSchedule,
		"running":               s.reportRunning,
		"last_run_started_at":   s.lastRunStartedAt,
		"last_run_completed_at": s.lastRunCompletedAt,
	}
}
