package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agent-ingest-api/infrastructure/database/postgres"
	"github.com/vfg2006/agent-ingest-api/infrastructure/repository"
	"github.com/vfg2006/agent-ingest-api/internal/api"
	"github.com/vfg2006/agent-ingest-api/internal/config"
	"github.com/vfg2006/agent-ingest-api/internal/scheduler"
	"github.com/vfg2006/agent-ingest-api/internal/usecases/ingesting"
	"github.com/vfg2006/agent-ingest-api/internal/usecases/summarizing"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A conexão pode ser nil: o servidor sobe mesmo sem banco configurado
	// e cada operação de persistência falha individualmente com 500.
	pgConn := pgconn(ctx, cfg.Database)
	if pgConn != nil {
		defer pgConn.Close()
	}

	voucherRepo := repository.NewVoucherRepository(pgConn)
	salesRepo := repository.NewSalesRepository(pgConn)

	ingestService := ingesting.NewService(voucherRepo, salesRepo)
	summaryService := summarizing.NewService(voucherRepo, cfg)

	reportService := scheduler.NewIngestionReportService(voucherRepo, salesRepo, cfg)
	if err := reportService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador do relatório de ingestão")
	}

	server, err := api.New(cfg, ingestService, summaryService, reportService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria a conexão com o banco; configuração ausente ou falha de
// conexão degradam a persistência em vez de impedir o boot.
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	if dbConfig.DSN == "" {
		logrus.Warn("DATABASE_URL/DATABASE_SERVICE_ROLE ausentes; uploads falharão até o banco ser configurado")
		return nil
	}

	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Warn("Erro ao conectar ao PostgreSQL; persistência indisponível")
		return nil
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
