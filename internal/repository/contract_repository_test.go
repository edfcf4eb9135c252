package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nurpe/snowops-contracts/internal/model"
	"github.com/nurpe/snowops-contracts/internal/repository/testutil"
)

func newContract(cfg *model.Configuration, code string, partners ...uuid.UUID) *model.IntegratedContract {
	items := make([]model.SnapshotItem, 0, len(partners))
	for _, partnerID := range partners {
		items = append(items, model.SnapshotItem{
			SheetID:   uuid.New(),
			RowID:     uuid.New(),
			PartnerID: partnerID,
			UnitPrice: 1000,
		})
	}
	now := time.Now().UTC()
	return &model.IntegratedContract{
		ConfigurationID: cfg.ID,
		EventID:         cfg.EventID,
		UnitTypeID:      uuid.New(),
		CustomerID:      uuid.New(),
		Code:            code,
		SelectedItems:   datatypes.JSONSlice[model.SnapshotItem](items),
		TotalAmount:     int64(1000 * len(items)),
		PaymentSchedule: datatypes.JSONSlice[model.ScheduleEntry]{{Name: "lump sum", Ratio: 100, Amount: int64(1000 * len(items))}},
		LegalAgreed:     true,
		Status:          model.ContractStatusSigned,
		SignedAt:        &now,
	}
}

func TestContractRepository_CreateAndLookups(t *testing.T) {
	db := testutil.DB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()
	cfg := seedConfiguration(t, db)

	partnerA := uuid.New()
	partnerB := uuid.New()
	contract := newContract(cfg, "ABCD2345", partnerA, partnerB, partnerA)
	require.NoError(t, repo.Create(ctx, contract))

	byCode, err := repo.GetByCode(ctx, "ABCD2345")
	require.NoError(t, err)
	assert.Equal(t, contract.ID, byCode.ID)
	require.Len(t, byCode.SelectedItems, 3)
	assert.Equal(t, int64(3000), byCode.TotalAmount)

	exists, err := repo.CodeExists(ctx, "ABCD2345")
	require.NoError(t, err)
	assert.True(t, exists)

	forA, err := repo.ListByPartner(ctx, partnerA)
	require.NoError(t, err)
	require.Len(t, forA, 1)

	hasB, err := repo.HasPartner(ctx, contract.ID, partnerB)
	require.NoError(t, err)
	assert.True(t, hasB)

	forEvent, err := repo.ListByEvent(ctx, cfg.EventID)
	require.NoError(t, err)
	assert.Len(t, forEvent, 1)

	forCustomer, err := repo.ListByCustomer(ctx, contract.CustomerID)
	require.NoError(t, err)
	assert.Len(t, forCustomer, 1)
}

func TestContractRepository_DuplicateCode(t *testing.T) {
	db := testutil.DB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()
	cfg := seedConfiguration(t, db)

	require.NoError(t, repo.Create(ctx, newContract(cfg, "SAMECODE", uuid.New())))
	err := repo.Create(ctx, newContract(cfg, "SAMECODE", uuid.New()))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestContractRepository_UpdateStatus(t *testing.T) {
	db := testutil.DB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()
	cfg := seedConfiguration(t, db)

	contract := newContract(cfg, "STATUS01", uuid.New())
	require.NoError(t, repo.Create(ctx, contract))

	cancelledAt := time.Now().UTC()
	require.NoError(t, repo.UpdateStatus(ctx, contract.ID, model.ContractStatusCancelled, contract.SignedAt, &cancelledAt))

	loaded, err := repo.Get(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ContractStatusCancelled, loaded.Status)
	assert.NotNil(t, loaded.CancelledAt)

	err = repo.UpdateStatus(ctx, uuid.New(), model.ContractStatusCompleted, nil, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestContractRepository_ListByPartnerHonoursContext(t *testing.T) {
	db := testutil.DB(t)
	repo := NewContractRepository(db)
	cfg := seedConfiguration(t, db)
	partner := uuid.New()
	require.NoError(t, repo.Create(context.Background(), newContract(cfg, "CTXCODE2", partner)))
	require.NoError(t, repo.Create(context.Background(), newContract(cfg, "CTXCODE3", uuid.New())))

	forPartner, err := repo.ListByPartner(context.Background(), partner)
	require.NoError(t, err)
	require.Len(t, forPartner, 1)
	assert.Equal(t, "CTXCODE2", forPartner[0].Code)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = repo.ListByPartner(ctx, partner)
	assert.ErrorIs(t, err, context.Canceled)
}
