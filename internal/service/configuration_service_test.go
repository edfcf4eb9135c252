package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/snowops-contracts/internal/model"
)

func TestConfigurationService_CreateOncePerEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cfg := f.configuration(t)

	assert.Equal(t, f.event.ID, cfg.EventID)
	assert.Equal(t, f.organizerOrg.ID, cfg.OrganizationID)
	assert.Equal(t, "59A", cfg.UnitTypes[0].Name)
	assert.Equal(t, 1, cfg.UnitTypes[1].SortOrder)

	_, err := f.configurationService().Create(ctx, f.organizer, CreateConfigurationInput{EventID: f.event.ID})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestConfigurationService_CreateIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.db.Migrator().DropTable(&model.UnitType{}))

	_, err := f.configurationService().Create(ctx, f.organizer, CreateConfigurationInput{
		EventID:   f.event.ID,
		UnitTypes: []UnitTypeInput{{Name: "59A"}},
	})
	require.Error(t, err)

	exists, err := f.configs.ExistsForEvent(ctx, f.event.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestConfigurationService_CreateRequiresOrganizer(t *testing.T) {
	f := newFixture(t)
	svc := f.configurationService()
	ctx := context.Background()

	_, err := svc.Create(ctx, f.partner, CreateConfigurationInput{EventID: f.event.ID})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Create(ctx, f.customer, CreateConfigurationInput{EventID: f.event.ID})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Create(ctx, f.organizer, CreateConfigurationInput{EventID: uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)

	cfg, err := svc.Create(ctx, f.admin, CreateConfigurationInput{EventID: f.event.ID})
	require.NoError(t, err)
	assert.Equal(t, model.ConfigurationStatusDraft, cfg.Status)
	assert.Empty(t, cfg.PaymentStages)
}

func TestConfigurationService_LifecycleIsMonotonic(t *testing.T) {
	f := newFixture(t)
	svc := f.configurationService()
	ctx := context.Background()
	cfg := f.configuration(t)

	closed := model.ConfigurationStatusClosed
	updated, err := svc.Update(ctx, f.organizer, cfg.ID, UpdateConfigurationInput{Status: &closed})
	require.NoError(t, err)
	assert.Equal(t, model.ConfigurationStatusClosed, updated.Status)

	draft := model.ConfigurationStatusDraft
	_, err = svc.Update(ctx, f.organizer, cfg.ID, UpdateConfigurationInput{Status: &draft})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConfigurationService_UpdateKeepsUnsetFields(t *testing.T) {
	f := newFixture(t)
	svc := f.configurationService()
	ctx := context.Background()
	cfg := f.configuration(t)

	notes := "parking included"
	_, err := svc.Update(ctx, f.organizer, cfg.ID, UpdateConfigurationInput{SpecialNotes: &notes})
	require.NoError(t, err)

	loaded, err := svc.Get(ctx, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, "parking included", loaded.SpecialNotes)
	assert.Equal(t, "terms", loaded.LegalTerms)
	assert.Len(t, loaded.PaymentStages, 3)

	_, err = svc.Update(ctx, f.partner, cfg.ID, UpdateConfigurationInput{SpecialNotes: &notes})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestConfigurationService_UnitTypes(t *testing.T) {
	f := newFixture(t)
	svc := f.configurationService()
	ctx := context.Background()
	cfg := f.configuration(t)

	added, err := svc.AddUnitType(ctx, f.organizer, cfg.ID, UnitTypeInput{Name: "  102C "})
	require.NoError(t, err)
	assert.Equal(t, "102C", added.Name)
	assert.Equal(t, 2, added.SortOrder)

	_, err = svc.AddUnitType(ctx, f.organizer, cfg.ID, UnitTypeInput{Name: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	name := "102C-1"
	plan := "plans/102c.png"
	renamed, err := svc.UpdateUnitType(ctx, f.organizer, added.ID, UpdateUnitTypeInput{Name: &name, FloorPlanURL: &plan})
	require.NoError(t, err)
	assert.Equal(t, "102C-1", renamed.Name)
	require.NotNil(t, renamed.FloorPlanURL)

	_, err = svc.UpdateUnitType(ctx, f.partner, added.ID, UpdateUnitTypeInput{Name: &name})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, svc.DeleteUnitType(ctx, f.organizer, added.ID))
	assert.ErrorIs(t, svc.DeleteUnitType(ctx, f.organizer, added.ID), ErrNotFound)
}

func TestConfigurationService_DeleteUnitTypeLeavesColumns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cfg := f.configuration(t)
	sheet := f.pricedSheet(t, cfg, f.partner, "Windows", pricedOption{name: "Double glazing", prices: []float64{1000, 2000}})

	require.NoError(t, f.configurationService().DeleteUnitType(ctx, f.organizer, cfg.UnitTypes[0].ID))

	loaded, err := f.sheetService().Get(ctx, f.partner, sheet.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Columns, 2)
	assert.Equal(t, cfg.UnitTypes[0].ID, *loaded.Columns[0].UnitTypeID)
}
