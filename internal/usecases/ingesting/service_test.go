package ingesting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/agent-ingest-api/infrastructure/repository"
	"github.com/vfg2006/agent-ingest-api/infrastructure/repository/mocks"
	"github.com/vfg2006/agent-ingest-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func newTestService(voucherRepo repository.VoucherRepository, salesRepo repository.SalesRepository) *Service {
	return &Service{
		voucherRepo: voucherRepo,
		salesRepo:   salesRepo,
		now: func() time.Time {
			return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
		},
	}
}

func TestServiceUploadVouchers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVoucherRepo := mocks.NewMockVoucherRepository(ctrl)
	mockSalesRepo := mocks.NewMockSalesRepository(ctrl)
	service := newTestService(mockVoucherRepo, mockSalesRepo)

	t.Run("lote de vouchers é persistido via upsert", func(t *testing.T) {
		payload := &domain.UploadPayload{
			AgentID: "agent-1",
			Company: "Acme Ltd",
			TS:      "2024-01-20T10:00:00Z",
			Data: map[string]any{
				"DAY1": map[string]any{
					"VOUCHER": []any{
						map[string]any{"DATE": "20240115", "VOUCHERNUMBER": "INV-1"},
						map[string]any{"DATE": "20240116", "VOUCHERNUMBER": "INV-2"},
					},
				},
			},
		}

		mockVoucherRepo.EXPECT().
			Upsert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, records []*domain.VoucherRecord) (int64, error) {
				assert.Len(t, records, 2)
				assert.Equal(t, "Acme Ltd|2024-01-15|INV-1", records[0].UniqueKey)
				assert.Equal(t, "Acme Ltd|2024-01-16|INV-2", records[1].UniqueKey)
				assert.Equal(t, "agent-1", records[0].AgentID)
				return 2, nil
			})

		result, err := service.Upload(context.Background(), payload)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), result.Inserted)
		assert.Empty(t, result.Note)
	})

	t.Run("payload sem vouchers vira registro bruto com chave sentinela", func(t *testing.T) {
		payload := &domain.UploadPayload{
			AgentID: "agent-1",
			Company: "Acme Ltd",
			TS:      "2024-01-20T10:00:00Z",
			Data:    map[string]any{"ENVELOPE": map[string]any{"empty": true}},
		}

		mockVoucherRepo.EXPECT().
			Upsert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, records []*domain.VoucherRecord) (int64, error) {
				assert.Len(t, records, 1)
				assert.Equal(t, "Acme Ltd|2024-01-20T10:00:00Z|no-vouchers", records[0].UniqueKey)
				assert.NotNil(t, records[0].Payload["data"])
				return 1, nil
			})

		result, err := service.Upload(context.Background(), payload)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), result.Inserted)
		assert.Equal(t, "no vouchers found; stored raw payload", result.Note)
	})

	t.Run("companyName serve de fallback para company", func(t *testing.T) {
		payload := &domain.UploadPayload{
			CompanyName: "Beta Ltda",
			Data: map[string]any{
				"VOUCHER": map[string]any{"DATE": "20240115", "VOUCHERNUMBER": "X-1"},
			},
		}

		mockVoucherRepo.EXPECT().
			Upsert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, records []*domain.VoucherRecord) (int64, error) {
				assert.Equal(t, "Beta Ltda", records[0].Company)
				return 1, nil
			})

		_, err := service.Upload(context.Background(), payload)
		assert.NoError(t, err)
	})

	t.Run("falha de persistência é propagada", func(t *testing.T) {
		payload := &domain.UploadPayload{
			Company: "Acme Ltd",
			Data: map[string]any{
				"VOUCHER": map[string]any{"VOUCHERNUMBER": "INV-9"},
			},
		}

		mockVoucherRepo.EXPECT().
			Upsert(gomock.Any(), gomock.Any()).
			Return(int64(0), repository.ErrUnavailable)

		result, err := service.Upload(context.Background(), payload)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, repository.ErrUnavailable)
	})
}

func TestServiceUploadSales(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVoucherRepo := mocks.NewMockVoucherRepository(ctrl)
	mockSalesRepo := mocks.NewMockSalesRepository(ctrl)
	service := newTestService(mockVoucherRepo, mockSalesRepo)

	period := &domain.Period{From: "2024-01-01", To: "2024-01-31"}

	t.Run("campos obrigatórios ausentes", func(t *testing.T) {
		payload := &domain.UploadPayload{
			Kind:    domain.KindSalesByCustomer,
			Company: "Acme Ltd",
			Rows:    []map[string]any{},
		}

		result, err := service.Upload(context.Background(), payload)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrMissingSalesFields)
	})

	t.Run("linhas válidas são inseridas", func(t *testing.T) {
		payload := &domain.UploadPayload{
			Kind:    domain.KindSalesByCustomer,
			Company: "Acme Ltd",
			Period:  period,
			Rows: []map[string]any{
				{"Customer": "Acme", "TotalSales": 500.0, "Lines": 2.0},
				{"Customer": "Beta", "TotalSales": 200.0, "Lines": 1.0},
			},
		}

		mockSalesRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rows []domain.SalesRow) (int64, error) {
				assert.Len(t, rows, 2)
				assert.Equal(t, "2024-01-01", rows[0].PeriodFrom)
				return 2, nil
			})

		result, err := service.Upload(context.Background(), payload)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), result.Inserted)
	})

	t.Run("todas as linhas filtradas não tocam o banco", func(t *testing.T) {
		payload := &domain.UploadPayload{
			Kind:    domain.KindSalesByCustomer,
			Company: "Acme Ltd",
			Period:  period,
			Rows: []map[string]any{
				{"TotalSales": 100.0},
				{"Customer": "Acme", "TotalSales": "1,234.50"},
			},
		}

		result, err := service.Upload(context.Background(), payload)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), result.Inserted)
		assert.Equal(t, "no valid rows after normalization", result.Note)
	})
}

func TestServiceUploadUnknownKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := newTestService(
		mocks.NewMockVoucherRepository(ctrl),
		mocks.NewMockSalesRepository(ctrl),
	)

	result, err := service.Upload(context.Background(), &domain.UploadPayload{
		Kind:    "stock_levels",
		Company: "Acme Ltd",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.Inserted)
	assert.Equal(t, "no handler for this kind", result.Note)
}
