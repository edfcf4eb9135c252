package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/snowops-contracts/internal/model"
)

func TestSheetService_CreateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	svc := f.sheetService()
	ctx := context.Background()
	cfg := f.configuration(t)

	first, created, err := svc.Create(ctx, f.partner, cfg.ID, CreateSheetInput{CategoryName: "Windows"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, f.partnerOrg.ID, first.OrganizationID)
	assert.Equal(t, model.SheetStatusDraft, first.Status)

	second, created, err := svc.Create(ctx, f.partner, cfg.ID, CreateSheetInput{CategoryName: "Other"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Windows", second.CategoryName)
}

func TestSheetService_CreateRequiresApprovedPartner(t *testing.T) {
	f := newFixture(t)
	svc := f.sheetService()
	ctx := context.Background()
	cfg := f.configuration(t)

	_, _, err := svc.Create(ctx, f.pending, cfg.ID, CreateSheetInput{})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, _, err = svc.Create(ctx, f.customer, cfg.ID, CreateSheetInput{})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, _, err = svc.Create(ctx, f.partner, uuid.New(), CreateSheetInput{})
	assert.ErrorIs(t, err, ErrNotFound)

	sheet, created, err := svc.Create(ctx, f.organizer, cfg.ID, CreateSheetInput{OrganizationID: &f.otherOrg.ID})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, f.otherOrg.ID, sheet.OrganizationID)

	_, _, err = svc.Create(ctx, f.partner, cfg.ID, CreateSheetInput{OrganizationID: &f.otherOrg.ID})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestSheetService_EditRights(t *testing.T) {
	f := newFixture(t)
	svc := f.sheetService()
	ctx := context.Background()
	cfg := f.configuration(t)
	sheet := f.pricedSheet(t, cfg, f.partner, "Windows", pricedOption{name: "Double glazing", prices: []float64{1000, 2000}})

	memo := "installed in March"
	_, err := svc.Update(ctx, f.other, sheet.ID, UpdateSheetInput{Memo: &memo})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Get(ctx, f.other, sheet.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	updated, err := svc.Update(ctx, f.organizer, sheet.ID, UpdateSheetInput{Memo: &memo})
	require.NoError(t, err)
	assert.Equal(t, memo, updated.Memo)
	assert.Len(t, updated.Rows, 1)

	bogus := model.SheetStatus("archived")
	_, err = svc.Update(ctx, f.partner, sheet.ID, UpdateSheetInput{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.DeleteRow(ctx, f.other, sheet.Rows[0].ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestSheetService_ListScopesToCaller(t *testing.T) {
	f := newFixture(t)
	svc := f.sheetService()
	ctx := context.Background()
	cfg := f.configuration(t)
	mine := f.pricedSheet(t, cfg, f.partner, "Windows")
	f.pricedSheet(t, cfg, f.other, "Kitchens")

	all, err := svc.List(ctx, f.organizer, cfg.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := svc.List(ctx, f.partner, cfg.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)
}

func TestSheetService_ReplaceColumnsSortOrder(t *testing.T) {
	f := newFixture(t)
	svc := f.sheetService()
	ctx := context.Background()
	cfg := f.configuration(t)
	sheet, _, err := svc.Create(ctx, f.partner, cfg.ID, CreateSheetInput{CategoryName: "Windows"})
	require.NoError(t, err)

	explicit := 10
	columns, err := svc.ReplaceColumns(ctx, f.partner, sheet.ID, []ColumnInput{
		{UnitTypeID: &cfg.UnitTypes[1].ID},
		{CustomName: "Notes", ColumnType: model.ColumnTypeText, SortOrder: &explicit},
		{UnitTypeID: &cfg.UnitTypes[0].ID},
	})
	require.NoError(t, err)
	require.Len(t, columns, 3)
	assert.Equal(t, 0, columns[0].SortOrder)
	assert.Equal(t, model.ColumnTypeAmount, columns[0].ColumnType)
	assert.Equal(t, 10, columns[1].SortOrder)
	assert.Equal(t, 2, columns[2].SortOrder)

	loaded, err := svc.Get(ctx, f.partner, sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Notes", loaded.Columns[2].CustomName)
}

func TestSheetService_ReplaceColumnsValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.sheetService()
	ctx := context.Background()
	cfg := f.configuration(t)
	sheet, _, err := svc.Create(ctx, f.partner, cfg.ID, CreateSheetInput{})
	require.NoError(t, err)

	foreign := uuid.New()
	_, err = svc.ReplaceColumns(ctx, f.partner, sheet.ID, []ColumnInput{{UnitTypeID: &foreign}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ReplaceColumns(ctx, f.partner, sheet.ID, []ColumnInput{{CustomName: "x", ColumnType: "percent"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ReplaceColumns(ctx, f.partner, sheet.ID, []ColumnInput{{}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSheetService_SaveMatrixRemapsRowKeys(t *testing.T) {
	f := newFixture(t)
	svc := f.sheetService()
	ctx := context.Background()
	cfg := f.configuration(t)
	sheet := f.pricedSheet(t, cfg, f.partner, "Windows", pricedOption{name: "Double glazing", prices: []float64{1000, 2000}})

	oldSmall := columnFor(t, sheet, cfg.UnitTypes[0].ID)
	oldLarge := columnFor(t, sheet, cfg.UnitTypes[1].ID)
	removed := uuid.New()

	saved, err := svc.SaveMatrix(ctx, f.partner, sheet.ID,
		[]ColumnInput{
			{ID: &oldLarge, UnitTypeID: &cfg.UnitTypes[1].ID},
			{ID: &oldSmall, UnitTypeID: &cfg.UnitTypes[0].ID},
			{CustomName: "Notes", ColumnType: model.ColumnTypeText},
		},
		[]RowInput{{
			OptionName: "Double glazing",
			Prices:     model.PriceMap{oldSmall: 1100, oldLarge: 2100, removed: 5},
			CellValues: model.CellMap{removed: "gone"},
		}},
	)
	require.NoError(t, err)
	require.Len(t, saved.Columns, 3)
	require.Len(t, saved.Rows, 1)

	newSmall := columnFor(t, saved, cfg.UnitTypes[0].ID)
	newLarge := columnFor(t, saved, cfg.UnitTypes[1].ID)
	assert.NotEqual(t, oldSmall, newSmall)
	assert.Equal(t, model.PriceMap{newSmall: 1100, newLarge: 2100}, saved.Rows[0].PriceMap())
	assert.Empty(t, saved.Rows[0].CellMap())
}

func TestSheetService_RowLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := f.sheetService()
	ctx := context.Background()
	cfg := f.configuration(t)
	sheet := f.pricedSheet(t, cfg, f.partner, "Windows", pricedOption{name: "Double glazing", prices: []float64{1000, 2000}})
	small := columnFor(t, sheet, cfg.UnitTypes[0].ID)

	added, err := svc.AddRow(ctx, f.partner, sheet.ID, RowInput{
		OptionName: "Triple glazing",
		CellValues: model.CellMap{small: "1,500"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added.SortOrder)

	_, err = svc.AddRow(ctx, f.partner, sheet.ID, RowInput{OptionName: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)

	name := "Triple glazing, argon"
	updated, err := svc.UpdateRow(ctx, f.partner, added.ID, UpdateRowInput{OptionName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.OptionName)
	assert.Equal(t, "1,500", updated.CellMap()[small])

	updated, err = svc.UpdateRow(ctx, f.partner, added.ID, UpdateRowInput{CellValues: model.CellMap{}})
	require.NoError(t, err)
	assert.Empty(t, updated.CellMap())

	_, err = svc.UpdateRow(ctx, f.partner, added.ID, UpdateRowInput{Prices: model.PriceMap{small: -1}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.DeleteRow(ctx, f.partner, added.ID))
	assert.ErrorIs(t, svc.DeleteRow(ctx, f.partner, added.ID), ErrNotFound)
	_, err = svc.UpdateRow(ctx, f.partner, uuid.New(), UpdateRowInput{OptionName: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}
