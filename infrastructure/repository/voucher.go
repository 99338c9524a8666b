package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/agent-ingest-api/infrastructure/database/postgres"
	"github.com/vfg2006/agent-ingest-api/internal/domain"
)

const vouchersTable = "vouchers"

// ErrUnavailable indica que a conexão com o banco não foi configurada
// (DATABASE_URL/DATABASE_SERVICE_ROLE ausentes). O servidor sobe mesmo
// assim e cada operação de persistência falha individualmente.
var ErrUnavailable = errors.New("banco de dados não configurado")

type VoucherRepository interface {
	Upsert(ctx context.Context, records []*domain.VoucherRecord) (int64, error)
	ListByDateRange(ctx context.Context, startDate, endDate time.Time, limit uint64) ([]*domain.VoucherRecord, error)
	Count(ctx context.Context) (int64, error)
}

type voucherRepository struct {
	conn *postgres.Connection
}

func NewVoucherRepository(conn *postgres.Connection) VoucherRepository {
	return &voucherRepository{
		conn: conn,
	}
}

// Upsert insere o lote em uma única instrução com ON CONFLICT na unique_key:
// reenviar o mesmo voucher sobrescreve em vez de duplicar.
func (r *voucherRepository) Upsert(ctx context.Context, records []*domain.VoucherRecord) (int64, error) {
	if r.conn == nil {
		return 0, ErrUnavailable
	}

	if len(records) == 0 {
		return 0, nil
	}

	builder := squirrel.StatementBuilder.
		Insert(vouchersTable).
		Columns("agent_id", "company", "ts", "voucher_date", "voucher_number", "voucher_type", "unique_key", "payload")

	for _, record := range records {
		payloadJSON, err := json.Marshal(record.Payload)
		if err != nil {
			return 0, fmt.Errorf("erro ao serializar payload do voucher: %w", err)
		}

		builder = builder.Values(
			record.AgentID,
			record.Company,
			record.TS,
			record.VoucherDate,
			record.VoucherNumber,
			record.VoucherType,
			record.UniqueKey,
			payloadJSON,
		)
	}

	query, args, err := builder.
		Suffix(`
			ON CONFLICT (unique_key) DO UPDATE SET
				agent_id = EXCLUDED.agent_id,
				ts = EXCLUDED.ts,
				voucher_date = EXCLUDED.voucher_date,
				voucher_number = EXCLUDED.voucher_number,
				voucher_type = EXCLUDED.voucher_type,
				payload = EXCLUDED.payload,
				updated_at = NOW()
		`).
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

// ListByDateRange busca os vouchers da janela por voucher_date normalizada.
// Registros sem data normalizada ficam fora da janela por definição.
func (r *voucherRepository) ListByDateRange(ctx context.Context, startDate, endDate time.Time, limit uint64) ([]*domain.VoucherRecord, error) {
	if r.conn == nil {
		return nil, ErrUnavailable
	}

	query, args, err := squirrel.
		Select("v.agent_id, v.company, v.ts, v.voucher_date, v.unique_key, v.payload").
		From(vouchersTable + " v").
		Where(squirrel.GtOrEq{"v.voucher_date": startDate.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"v.voucher_date": endDate.Format(time.DateOnly)}).
		OrderBy("v.voucher_date ASC").
		Limit(limit).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.VoucherRecord, 0)
	for rows.Next() {
		record, err := r.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear voucher: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

func (r *voucherRepository) Count(ctx context.Context) (int64, error) {
	if r.conn == nil {
		return 0, ErrUnavailable
	}

	query, args, err := squirrel.
		Select("COUNT(*)").
		From(vouchersTable).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var total int64
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("erro ao contar vouchers: %w", err)
	}

	return total, nil
}

func (r *voucherRepository) scanRecord(rows *sql.Rows) (*domain.VoucherRecord, error) {
	record := &domain.VoucherRecord{}
	var voucherDate sql.NullString
	var payloadJSON []byte

	err := rows.Scan(
		&record.AgentID,
		&record.Company,
		&record.TS,
		&voucherDate,
		&record.UniqueKey,
		&payloadJSON,
	)
	if err != nil {
		return nil, err
	}

	if voucherDate.Valid {
		record.VoucherDate = &voucherDate.String
	}

	if payloadJSON != nil {
		payload := domain.Voucher{}
		if err := json.Unmarshal(payloadJSON, &payload); err != nil {
			return nil, fmt.Errorf("erro ao deserializar payload do voucher: %w", err)
		}
		record.Payload = payload
	}

	return record, nil
}
