package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/snowops-contracts/internal/model"
	"github.com/nurpe/snowops-contracts/internal/pricing"
	"github.com/nurpe/snowops-contracts/internal/repository"
)

// SheetService owns partner sheets and their column/row matrices.
type SheetService struct {
	configs *repository.ConfigurationRepository
	sheets  *repository.SheetRepository
	access  access
}

func NewSheetService(
	configs *repository.ConfigurationRepository,
	sheets *repository.SheetRepository,
	directory Directory,
) *SheetService {
	return &SheetService{
		configs: configs,
		sheets:  sheets,
		access:  access{directory: directory},
	}
}

type CreateSheetInput struct {
	CategoryName string `json:"category_name"`
	Memo         string `json:"memo"`
	// OrganizationID lets organizers and admins open a sheet for a partner.
	OrganizationID *uuid.UUID `json:"organization_id"`
}

type UpdateSheetInput struct {
	CategoryName *string            `json:"category_name"`
	Memo         *string            `json:"memo"`
	Status       *model.SheetStatus `json:"status"`
}

type ColumnInput struct {
	// ID is the column's previous id; SaveMatrix uses it to carry cell values over.
	ID         *uuid.UUID       `json:"id"`
	UnitTypeID *uuid.UUID       `json:"unit_type_id"`
	CustomName string           `json:"custom_name"`
	ColumnType model.ColumnType `json:"column_type"`
	SortOrder  *int             `json:"sort_order"`
}

type RowInput struct {
	OptionName   string         `json:"option_name"`
	PopupContent string         `json:"popup_content"`
	PopupImage   string         `json:"popup_image"`
	SortOrder    *int           `json:"sort_order"`
	Prices       model.PriceMap `json:"prices"`
	CellValues   model.CellMap  `json:"cell_values"`
}

// UpdateRowInput leaves nil fields untouched. An empty map clears prices or cells.
type UpdateRowInput struct {
	OptionName   *string        `json:"option_name"`
	PopupContent *string        `json:"popup_content"`
	PopupImage   *string        `json:"popup_image"`
	SortOrder    *int           `json:"sort_order"`
	Prices       model.PriceMap `json:"prices"`
	CellValues   model.CellMap  `json:"cell_values"`
}

// Create returns the caller's sheet for the configuration, creating it on first
// call. The boolean reports whether a new sheet was created.
func (s *SheetService) Create(ctx context.Context, principal model.Principal, configurationID uuid.UUID, input CreateSheetInput) (*model.PartnerSheet, bool, error) {
	cfg, err := s.configuration(ctx, configurationID)
	if err != nil {
		return nil, false, err
	}

	orgID, err := s.sheetOwner(ctx, principal, cfg, input.OrganizationID)
	if err != nil {
		return nil, false, err
	}
	approved, err := s.access.directory.IsApprovedPartner(ctx, cfg.EventID, orgID)
	if err != nil {
		return nil, false, err
	}
	if !approved {
		return nil, false, fmt.Errorf("%w: organization is not an approved partner of the event", ErrPermissionDenied)
	}

	existing, err := s.sheets.FindByPartner(ctx, cfg.ID, orgID)
	if err == nil {
		sheet, err := s.sheets.GetWithMatrix(ctx, existing.ID)
		return sheet, false, err
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	now := time.Now().UTC()
	sheet := &model.PartnerSheet{
		ConfigurationID: cfg.ID,
		OrganizationID:  orgID,
		CategoryName:    strings.TrimSpace(input.CategoryName),
		Memo:            input.Memo,
		Status:          model.SheetStatusDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
		Columns:         []model.SheetColumn{},
		Rows:            []model.SheetRow{},
	}
	if err := s.sheets.Create(ctx, sheet); err != nil {
		return nil, false, err
	}
	return sheet, true, nil
}

func (s *SheetService) sheetOwner(ctx context.Context, principal model.Principal, cfg *model.Configuration, requested *uuid.UUID) (uuid.UUID, error) {
	if principal.IsAdmin() {
		if requested == nil {
			return uuid.Nil, fmt.Errorf("%w: organization_id is required", ErrInvalidInput)
		}
		return *requested, nil
	}
	orgID, err := s.access.organization(ctx, principal)
	if err != nil {
		return uuid.Nil, err
	}
	if requested != nil && *requested != orgID {
		if orgID != cfg.OrganizationID {
			return uuid.Nil, ErrPermissionDenied
		}
		return *requested, nil
	}
	return orgID, nil
}

func (s *SheetService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.PartnerSheet, error) {
	sheet, err := s.sheets.GetWithMatrix(ctx, id)
	if err != nil {
		return nil, notFound(err, "sheet")
	}
	cfg, err := s.configuration(ctx, sheet.ConfigurationID)
	if err != nil {
		return nil, err
	}
	if err := s.access.requireSheetEditor(ctx, principal, sheet, cfg); err != nil {
		return nil, err
	}
	return sheet, nil
}

// List returns every sheet to the organizer and admins, and only the caller's
// own sheet to a partner.
func (s *SheetService) List(ctx context.Context, principal model.Principal, configurationID uuid.UUID) ([]model.PartnerSheet, error) {
	cfg, err := s.configuration(ctx, configurationID)
	if err != nil {
		return nil, err
	}
	sheets, err := s.sheets.ListByConfiguration(ctx, cfg.ID, nil)
	if err != nil {
		return nil, err
	}
	if principal.IsAdmin() {
		return sheets, nil
	}
	orgID, err := s.access.organization(ctx, principal)
	if err != nil {
		return nil, err
	}
	if orgID == cfg.OrganizationID {
		return sheets, nil
	}
	own := make([]model.PartnerSheet, 0, 1)
	for _, sheet := range sheets {
		if sheet.OrganizationID == orgID {
			own = append(own, sheet)
		}
	}
	return own, nil
}

func (s *SheetService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input UpdateSheetInput) (*model.PartnerSheet, error) {
	sheet, _, err := s.editable(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if input.CategoryName != nil {
		sheet.CategoryName = strings.TrimSpace(*input.CategoryName)
	}
	if input.Memo != nil {
		sheet.Memo = *input.Memo
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown sheet status %q", ErrInvalidInput, *input.Status)
		}
		sheet.Status = *input.Status
	}
	sheet.UpdatedAt = time.Now().UTC()
	if err := s.sheets.Save(ctx, sheet); err != nil {
		return nil, err
	}
	return s.sheets.GetWithMatrix(ctx, sheet.ID)
}

// ReplaceColumns swaps the whole column set. Columns get new ids; row cell maps
// keep their old keys, which callers are expected to rewrite.
func (s *SheetService) ReplaceColumns(ctx context.Context, principal model.Principal, sheetID uuid.UUID, inputs []ColumnInput) ([]model.SheetColumn, error) {
	sheet, cfg, err := s.editable(ctx, principal, sheetID)
	if err != nil {
		return nil, err
	}
	columns, err := buildColumns(cfg, inputs)
	if err != nil {
		return nil, err
	}
	if err := s.touch(ctx, sheet); err != nil {
		return nil, err
	}
	return s.sheets.ReplaceColumns(ctx, sheet.ID, columns)
}

func (s *SheetService) ReplaceRows(ctx context.Context, principal model.Principal, sheetID uuid.UUID, inputs []RowInput) ([]model.SheetRow, error) {
	sheet, _, err := s.editable(ctx, principal, sheetID)
	if err != nil {
		return nil, err
	}
	rows, err := buildRows(inputs, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.touch(ctx, sheet); err != nil {
		return nil, err
	}
	return s.sheets.ReplaceRows(ctx, sheet.ID, rows)
}

// SaveMatrix replaces columns and rows together. Row maps may be keyed by the
// previous column ids given in ColumnInput.ID; they are rewritten to the new ids.
func (s *SheetService) SaveMatrix(ctx context.Context, principal model.Principal, sheetID uuid.UUID, columnInputs []ColumnInput, rowInputs []RowInput) (*model.PartnerSheet, error) {
	sheet, cfg, err := s.editable(ctx, principal, sheetID)
	if err != nil {
		return nil, err
	}
	columns, err := buildColumns(cfg, columnInputs)
	if err != nil {
		return nil, err
	}
	rows, err := buildRows(rowInputs, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	previous := make([]uuid.UUID, len(columnInputs))
	for i, in := range columnInputs {
		if in.ID != nil {
			previous[i] = *in.ID
		}
	}

	if err := s.touch(ctx, sheet); err != nil {
		return nil, err
	}
	_, _, err = s.sheets.SaveMatrix(ctx, sheet.ID, columns, func(saved []model.SheetColumn) []model.SheetRow {
		current := pricing.ColumnIDs(saved)
		for i := range rows {
			rows[i].Prices, rows[i].CellValues = model.NewRowMaps(
				pricing.RemapKeys(previous, current, rows[i].PriceMap()),
				pricing.RemapKeys(previous, current, rows[i].CellMap()),
			)
		}
		return rows
	})
	if err != nil {
		return nil, err
	}
	return s.sheets.GetWithMatrix(ctx, sheet.ID)
}

func (s *SheetService) AddRow(ctx context.Context, principal model.Principal, sheetID uuid.UUID, input RowInput) (*model.SheetRow, error) {
	sheet, _, err := s.editable(ctx, principal, sheetID)
	if err != nil {
		return nil, err
	}
	if input.SortOrder == nil {
		next, err := s.sheets.NextRowOrder(ctx, sheet.ID)
		if err != nil {
			return nil, err
		}
		input.SortOrder = &next
	}
	rows, err := buildRows([]RowInput{input}, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	row := rows[0]
	row.SheetID = sheet.ID
	if err := s.sheets.CreateRow(ctx, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *SheetService) UpdateRow(ctx context.Context, principal model.Principal, rowID uuid.UUID, input UpdateRowInput) (*model.SheetRow, error) {
	row, err := s.sheets.GetRow(ctx, rowID)
	if err != nil {
		return nil, notFound(err, "row")
	}
	if _, _, err := s.editable(ctx, principal, row.SheetID); err != nil {
		return nil, err
	}

	if input.OptionName != nil {
		name := strings.TrimSpace(*input.OptionName)
		if name == "" {
			return nil, fmt.Errorf("%w: option name is required", ErrInvalidInput)
		}
		row.OptionName = name
	}
	if input.PopupContent != nil {
		row.PopupContent = *input.PopupContent
	}
	if input.PopupImage != nil {
		row.PopupImage = *input.PopupImage
	}
	if input.SortOrder != nil {
		row.SortOrder = *input.SortOrder
	}
	prices, cells := row.PriceMap(), row.CellMap()
	if input.Prices != nil {
		prices = input.Prices
	}
	if input.CellValues != nil {
		cells = input.CellValues
	}
	if err := validateAmounts(prices); err != nil {
		return nil, err
	}
	row.Prices, row.CellValues = model.NewRowMaps(prices, cells)
	row.UpdatedAt = time.Now().UTC()

	if err := s.sheets.SaveRow(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *SheetService) DeleteRow(ctx context.Context, principal model.Principal, rowID uuid.UUID) error {
	row, err := s.sheets.GetRow(ctx, rowID)
	if err != nil {
		return notFound(err, "row")
	}
	if _, _, err := s.editable(ctx, principal, row.SheetID); err != nil {
		return err
	}
	return notFound(s.sheets.DeleteRow(ctx, rowID), "row")
}

func (s *SheetService) configuration(ctx context.Context, id uuid.UUID) (*model.Configuration, error) {
	cfg, err := s.configs.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "configuration")
	}
	return cfg, nil
}

// editable loads a sheet and its configuration after checking edit rights.
func (s *SheetService) editable(ctx context.Context, principal model.Principal, sheetID uuid.UUID) (*model.PartnerSheet, *model.Configuration, error) {
	sheet, err := s.sheets.Get(ctx, sheetID)
	if err != nil {
		return nil, nil, notFound(err, "sheet")
	}
	cfg, err := s.configuration(ctx, sheet.ConfigurationID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.access.requireSheetEditor(ctx, principal, sheet, cfg); err != nil {
		return nil, nil, err
	}
	return sheet, cfg, nil
}

func (s *SheetService) touch(ctx context.Context, sheet *model.PartnerSheet) error {
	sheet.UpdatedAt = time.Now().UTC()
	return s.sheets.Save(ctx, sheet)
}

func buildColumns(cfg *model.Configuration, inputs []ColumnInput) ([]model.SheetColumn, error) {
	unitTypes := make(map[uuid.UUID]struct{}, len(cfg.UnitTypes))
	for _, ut := range cfg.UnitTypes {
		unitTypes[ut.ID] = struct{}{}
	}

	columns := make([]model.SheetColumn, 0, len(inputs))
	for i, in := range inputs {
		columnType := in.ColumnType
		if columnType == "" {
			columnType = model.ColumnTypeAmount
		}
		if !columnType.Valid() {
			return nil, fmt.Errorf("%w: unknown column type %q", ErrInvalidInput, in.ColumnType)
		}
		if in.UnitTypeID != nil {
			if _, ok := unitTypes[*in.UnitTypeID]; !ok {
				return nil, fmt.Errorf("%w: unit type %s does not belong to the configuration", ErrInvalidInput, *in.UnitTypeID)
			}
		}
		if in.UnitTypeID == nil && strings.TrimSpace(in.CustomName) == "" {
			return nil, fmt.Errorf("%w: column needs a unit type or a custom name", ErrInvalidInput)
		}
		columns = append(columns, model.SheetColumn{
			UnitTypeID: in.UnitTypeID,
			CustomName: strings.TrimSpace(in.CustomName),
			ColumnType: columnType,
			SortOrder:  orderOr(in.SortOrder, i),
		})
	}
	return columns, nil
}

func buildRows(inputs []RowInput, now time.Time) ([]model.SheetRow, error) {
	rows := make([]model.SheetRow, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.OptionName)
		if name == "" {
			return nil, fmt.Errorf("%w: option name is required", ErrInvalidInput)
		}
		if err := validateAmounts(in.Prices); err != nil {
			return nil, err
		}
		prices, cells := model.NewRowMaps(in.Prices, in.CellValues)
		rows = append(rows, model.SheetRow{
			OptionName:   name,
			PopupContent: in.PopupContent,
			PopupImage:   in.PopupImage,
			SortOrder:    orderOr(in.SortOrder, i),
			Prices:       prices,
			CellValues:   cells,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return rows, nil
}

func validateAmounts(prices model.PriceMap) error {
	for columnID, price := range prices {
		if price < 0 {
			return fmt.Errorf("%w: negative price for column %s", ErrInvalidInput, columnID)
		}
	}
	return nil
}
