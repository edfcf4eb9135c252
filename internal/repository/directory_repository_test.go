package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/snowops-contracts/internal/model"
	"github.com/nurpe/snowops-contracts/internal/repository/testutil"
)

func TestDirectoryRepository_Lookups(t *testing.T) {
	db := testutil.DB(t)
	repo := NewDirectoryRepository(db)
	ctx := context.Background()

	organizer := testutil.SeedOrganization(t, db, "Fair Co")
	partner := testutil.SeedOrganization(t, db, "Blinds Inc")
	pending := testutil.SeedOrganization(t, db, "Late Ltd")
	event := testutil.SeedEvent(t, db, organizer, "SPRING", 12.5)
	rate := 4.0
	testutil.SeedEventPartner(t, db, event, partner, "approved", &rate)
	testutil.SeedEventPartner(t, db, event, pending, "pending", nil)
	staff := testutil.SeedMember(t, db, partner, true)

	membership, err := repo.GetMembership(ctx, staff)
	require.NoError(t, err)
	assert.Equal(t, partner.ID, membership.OrganizationID)
	assert.True(t, membership.Approved)

	byCode, err := repo.GetEventByInviteCode(ctx, "SPRING")
	require.NoError(t, err)
	assert.Equal(t, event.ID, byCode.ID)
	assert.Equal(t, 12.5, byCode.CommissionRate)

	partners, err := repo.ListEventPartners(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, partners, 1)
	require.NotNil(t, partners[0].CommissionRate)
	assert.Equal(t, 4.0, *partners[0].CommissionRate)

	ok, err := repo.IsApprovedPartner(ctx, event.ID, pending.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	orgs, err := repo.GetOrganizations(ctx, []uuid.UUID{organizer.ID, partner.ID})
	require.NoError(t, err)
	assert.Equal(t, "Blinds Inc", orgs[partner.ID].Name)

	_, err = repo.GetEvent(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLedgerRepository_ListEventContracts(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	organizer := testutil.SeedOrganization(t, db, "Fair Co")
	partner := testutil.SeedOrganization(t, db, "Kitchens")
	event := testutil.SeedEvent(t, db, organizer, "AUTUMN", 10)
	other := testutil.SeedEvent(t, db, organizer, "WINTER", 10)
	testutil.SeedLedgerContract(t, db, event, partner, model.LedgerStatusSigned, 5000)
	testutil.SeedLedgerContract(t, db, event, partner, model.LedgerStatusCancelled, 700)
	testutil.SeedLedgerContract(t, db, other, partner, model.LedgerStatusSigned, 1)

	contracts, err := NewLedgerRepository(db).ListEventContracts(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.Equal(t, partner.ID, contracts[0].PartnerID)
}
