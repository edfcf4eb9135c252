package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/snowops-contracts/internal/excel"
	"github.com/nurpe/snowops-contracts/internal/model"
	"github.com/nurpe/snowops-contracts/internal/repository"
	"github.com/nurpe/snowops-contracts/internal/repository/testutil"
)

func (f *fixture) settlementService() *SettlementService {
	return NewSettlementService(repository.NewLedgerRepository(f.db), f.directory, excel.NewGenerator())
}

func TestSettlementService_Get(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	former := testutil.SeedOrganization(t, f.db, "Dawn Tiles")

	testutil.SeedLedgerContract(t, f.db, f.event, f.partnerOrg, model.LedgerStatusSigned, 1000)
	testutil.SeedLedgerContract(t, f.db, f.event, f.partnerOrg, model.LedgerStatusCompleted, 2000)
	testutil.SeedLedgerContract(t, f.db, f.event, f.partnerOrg, model.LedgerStatusPending, 500)
	testutil.SeedLedgerContract(t, f.db, f.event, f.partnerOrg, model.LedgerStatusCancelled, 9000)
	testutil.SeedLedgerContract(t, f.db, f.event, former, model.LedgerStatusSigned, 100)

	settlement, err := f.settlementService().Get(ctx, f.organizer, f.event.ID)
	require.NoError(t, err)

	require.Len(t, settlement.Partners, 3)
	alpine := settlement.Partners[0]
	assert.Equal(t, "Alpine Windows", alpine.PartnerName)
	assert.Equal(t, 4, alpine.Counts.Total)
	assert.Equal(t, int64(3500), alpine.TotalAmount)
	assert.Equal(t, int64(3000), alpine.SettledAmount)
	assert.Equal(t, int64(300), alpine.CommissionAmount)
	assert.Equal(t, int64(2700), alpine.PayoutAmount)

	birch := settlement.Partners[1]
	assert.Equal(t, "Birch Kitchens", birch.PartnerName)
	assert.Zero(t, birch.Counts.Total)
	assert.Zero(t, birch.PayoutAmount)

	dawn := settlement.Partners[2]
	assert.Equal(t, "Dawn Tiles", dawn.PartnerName)
	assert.Equal(t, 10.0, dawn.CommissionRate)
	assert.Equal(t, int64(10), dawn.CommissionAmount)

	assert.Equal(t, int64(3100), settlement.Totals.SettledAmount)
	assert.Equal(t, int64(2790), settlement.Totals.PayoutAmount)
}

func TestSettlementService_Access(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.settlementService()

	_, err := svc.Get(ctx, f.partner, f.event.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Get(ctx, f.organizer, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	settlement, err := svc.Get(ctx, f.admin, f.event.ID)
	require.NoError(t, err)
	assert.Len(t, settlement.Partners, 2)
}

func TestSettlementService_Export(t *testing.T) {
	f := newFixture(t)
	testutil.SeedLedgerContract(t, f.db, f.event, f.partnerOrg, model.LedgerStatusSigned, 1000)

	export, err := f.settlementService().Export(context.Background(), f.organizer, f.event.ID)
	require.NoError(t, err)
	assert.Contains(t, export.FileName, f.event.ID.String())

	file, err := excelize.OpenReader(bytes.NewReader(export.Content))
	require.NoError(t, err)
	defer file.Close()
	assert.Len(t, file.GetSheetList(), 3)
}
