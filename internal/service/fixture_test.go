package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/snowops-contracts/internal/config"
	"github.com/nurpe/snowops-contracts/internal/model"
	"github.com/nurpe/snowops-contracts/internal/repository"
	"github.com/nurpe/snowops-contracts/internal/repository/testutil"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []model.Notification
}

func (r *recordingSender) Send(_ context.Context, notifications ...model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, notifications...)
}

func (r *recordingSender) all() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Notification(nil), r.sent...)
}

// fixture seeds one event with an organizer, two approved partners, one
// unapproved partner and a customer.
type fixture struct {
	db        *gorm.DB
	directory *repository.DirectoryRepository
	configs   *repository.ConfigurationRepository
	sheets    *repository.SheetRepository
	contracts *repository.ContractRepository
	sender    *recordingSender

	organizerOrg model.Organization
	partnerOrg   model.Organization
	otherOrg     model.Organization
	pendingOrg   model.Organization
	event        model.Event
	customerUser model.User

	admin     model.Principal
	organizer model.Principal
	partner   model.Principal
	other     model.Principal
	pending   model.Principal
	customer  model.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	f := &fixture{
		db:        db,
		directory: repository.NewDirectoryRepository(db),
		configs:   repository.NewConfigurationRepository(db),
		sheets:    repository.NewSheetRepository(db),
		contracts: repository.NewContractRepository(db),
		sender:    &recordingSender{},
	}

	f.organizerOrg = testutil.SeedOrganization(t, db, "Hanbit Events")
	f.partnerOrg = testutil.SeedOrganization(t, db, "Alpine Windows")
	f.otherOrg = testutil.SeedOrganization(t, db, "Birch Kitchens")
	f.pendingOrg = testutil.SeedOrganization(t, db, "Cedar Floors")
	f.event = testutil.SeedEvent(t, db, f.organizerOrg, "SPRING", 10)
	testutil.SeedEventPartner(t, db, f.event, f.partnerOrg, "approved", nil)
	testutil.SeedEventPartner(t, db, f.event, f.otherOrg, "approved", nil)
	testutil.SeedEventPartner(t, db, f.event, f.pendingOrg, "pending", nil)

	f.admin = model.Principal{UserID: uuid.New(), Role: model.UserRoleAdmin}
	f.organizer = model.Principal{UserID: testutil.SeedMember(t, db, f.organizerOrg, true), Role: model.UserRoleOrganizer}
	f.partner = model.Principal{UserID: testutil.SeedMember(t, db, f.partnerOrg, true), Role: model.UserRolePartner}
	f.other = model.Principal{UserID: testutil.SeedMember(t, db, f.otherOrg, true), Role: model.UserRolePartner}
	f.pending = model.Principal{UserID: testutil.SeedMember(t, db, f.pendingOrg, true), Role: model.UserRolePartner}
	f.customerUser = testutil.SeedUser(t, db, "Kim Minji", "010-1234-5678")
	f.customer = model.Principal{UserID: f.customerUser.ID, Role: model.UserRoleCustomer}
	return f
}

func (f *fixture) configurationService() *ConfigurationService {
	return NewConfigurationService(f.configs, f.directory)
}

func (f *fixture) sheetService() *SheetService {
	return NewSheetService(f.configs, f.sheets, f.directory)
}

func (f *fixture) contractService() *ContractService {
	return NewContractService(f.configs, f.sheets, f.contracts, f.directory, f.sender, config.ContractsConfig{
		CodeLength:      8,
		CodeMaxAttempts: 20,
	})
}

func (f *fixture) flowService() *FlowService {
	return NewFlowService(f.configs, f.sheets, f.directory)
}

// configuration creates an active configuration with unit types "59A" and "84B"
// and a 20/40/40 schedule.
func (f *fixture) configuration(t *testing.T) *model.Configuration {
	t.Helper()
	cfg, err := f.configurationService().Create(context.Background(), f.organizer, CreateConfigurationInput{
		EventID: f.event.ID,
		PaymentStages: []model.PaymentStage{
			{Name: "deposit", Ratio: 20},
			{Name: "interim", Ratio: 40},
			{Name: "balance", Ratio: 40},
		},
		LegalTerms: "terms",
		Status:     model.ConfigurationStatusActive,
		UnitTypes:  []UnitTypeInput{{Name: "59A"}, {Name: "84B"}},
	})
	require.NoError(t, err)
	require.Len(t, cfg.UnitTypes, 2)
	return cfg
}

type pricedOption struct {
	name string
	// prices lines up with the configuration's unit types; zero leaves the cell empty.
	prices []float64
}

// pricedSheet opens the caller's sheet with one amount column per unit type
// and one row per option.
func (f *fixture) pricedSheet(t *testing.T, cfg *model.Configuration, principal model.Principal, category string, options ...pricedOption) *model.PartnerSheet {
	t.Helper()
	ctx := context.Background()
	svc := f.sheetService()

	sheet, _, err := svc.Create(ctx, principal, cfg.ID, CreateSheetInput{CategoryName: category})
	require.NoError(t, err)

	columnInputs := make([]ColumnInput, len(cfg.UnitTypes))
	for i := range cfg.UnitTypes {
		columnInputs[i] = ColumnInput{UnitTypeID: &cfg.UnitTypes[i].ID, ColumnType: model.ColumnTypeAmount}
	}
	columns, err := svc.ReplaceColumns(ctx, principal, sheet.ID, columnInputs)
	require.NoError(t, err)

	rows := make([]RowInput, len(options))
	for i, opt := range options {
		prices := model.PriceMap{}
		for j, price := range opt.prices {
			if price != 0 {
				prices[columns[j].ID] = price
			}
		}
		rows[i] = RowInput{OptionName: opt.name, Prices: prices}
	}
	_, err = svc.ReplaceRows(ctx, principal, sheet.ID, rows)
	require.NoError(t, err)

	loaded, err := svc.Get(ctx, principal, sheet.ID)
	require.NoError(t, err)
	return loaded
}

// columnFor returns the id of the sheet column bound to the unit type.
func columnFor(t *testing.T, sheet *model.PartnerSheet, unitTypeID uuid.UUID) uuid.UUID {
	t.Helper()
	for _, col := range sheet.Columns {
		if col.UnitTypeID != nil && *col.UnitTypeID == unitTypeID {
			return col.ID
		}
	}
	t.Fatalf("sheet %s has no column for unit type %s", sheet.ID, unitTypeID)
	return uuid.Nil
}
