package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/agent-ingest-api/infrastructure/database/postgres"
	"github.com/vfg2006/agent-ingest-api/internal/domain"
)

const salesByCustomerTable = "sales_by_customer"

type SalesRepository interface {
	Insert(ctx context.Context, rows []domain.SalesRow) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type salesRepository struct {
	conn *postgres.Connection
}

func NewSalesRepository(conn *postgres.Connection) SalesRepository {
	return &salesRepository{
		conn: conn,
	}
}

// Insert grava o lote de linhas de vendas. Sem chave de deduplicação:
// reenvios duplicam, por contrato da tabela.
func (r *salesRepository) Insert(ctx context.Context, rows []domain.SalesRow) (int64, error) {
	if r.conn == nil {
		return 0, ErrUnavailable
	}

	if len(rows) == 0 {
		return 0, nil
	}

	builder := squirrel.StatementBuilder.
		Insert(salesByCustomerTable).
		Columns("company", "period_from", "period_to", "customer", "total_sales", "lines")

	for _, row := range rows {
		builder = builder.Values(
			row.Company,
			row.PeriodFrom,
			row.PeriodTo,
			row.Customer,
			row.TotalSales,
			row.Lines,
		)
	}

	query, args, err := builder.
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return 0, fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	return result.RowsAffected()
}

func (r *salesRepository) Count(ctx context.Context) (int64, error) {
	if r.conn == nil {
		return 0, ErrUnavailable
	}

	query, args, err := squirrel.
		Select("COUNT(*)").
		From(salesByCustomerTable).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var total int64
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("erro ao contar linhas de vendas: %w", err)
	}

	return total, nil
}
