package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/snowops-contracts/internal/model"
)

type SheetRepository struct {
	db *gorm.DB
}

func NewSheetRepository(db *gorm.DB) *SheetRepository {
	return &SheetRepository{db: db}
}

func (r *SheetRepository) Get(ctx context.Context, id uuid.UUID) (*model.PartnerSheet, error) {
	var sheet model.PartnerSheet
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&sheet).Error; err != nil {
		return nil, err
	}
	return &sheet, nil
}

// GetWithMatrix loads a sheet together with its ordered columns and rows.
func (r *SheetRepository) GetWithMatrix(ctx context.Context, id uuid.UUID) (*model.PartnerSheet, error) {
	sheet, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sheets := []model.PartnerSheet{*sheet}
	if err := r.attachMatrix(ctx, sheets); err != nil {
		return nil, err
	}
	return &sheets[0], nil
}

func (r *SheetRepository) FindByPartner(ctx context.Context, configurationID, organizationID uuid.UUID) (*model.PartnerSheet, error) {
	var sheet model.PartnerSheet
	err := r.db.WithContext(ctx).
		Where("configuration_id = ? AND organization_id = ?", configurationID, organizationID).
		Order("created_at ASC").
		First(&sheet).Error
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (r *SheetRepository) Create(ctx context.Context, sheet *model.PartnerSheet) error {
	if sheet.ID == uuid.Nil {
		sheet.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(sheet).Error
}

func (r *SheetRepository) Save(ctx context.Context, sheet *model.PartnerSheet) error {
	return r.db.WithContext(ctx).
		Model(sheet).
		Select("category_name", "memo", "status", "updated_at").
		Updates(sheet).Error
}

// ListByConfiguration returns the sheets of a configuration in creation order
// with their matrices. An empty statuses list means every status.
func (r *SheetRepository) ListByConfiguration(ctx context.Context, configurationID uuid.UUID, statuses []model.SheetStatus) ([]model.PartnerSheet, error) {
	query := r.db.WithContext(ctx).Where("configuration_id = ?", configurationID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	sheets := []model.PartnerSheet{}
	if err := query.Order("created_at ASC").Order("id ASC").Find(&sheets).Error; err != nil {
		return nil, err
	}
	if err := r.attachMatrix(ctx, sheets); err != nil {
		return nil, err
	}
	return sheets, nil
}

// ListByIDs loads sheets with their matrices, keyed by id.
func (r *SheetRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.PartnerSheet, error) {
	result := make(map[uuid.UUID]model.PartnerSheet, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var sheets []model.PartnerSheet
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&sheets).Error; err != nil {
		return nil, err
	}
	if err := r.attachMatrix(ctx, sheets); err != nil {
		return nil, err
	}
	for _, sheet := range sheets {
		result[sheet.ID] = sheet
	}
	return result, nil
}

// attachMatrix fills columns and rows for every sheet with one query each.
func (r *SheetRepository) attachMatrix(ctx context.Context, sheets []model.PartnerSheet) error {
	if len(sheets) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(sheets))
	for i, sheet := range sheets {
		ids[i] = sheet.ID
	}

	var columns []model.SheetColumn
	if err := r.db.WithContext(ctx).
		Where("sheet_id IN ?", ids).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&columns).Error; err != nil {
		return err
	}
	var rows []model.SheetRow
	if err := r.db.WithContext(ctx).
		Where("sheet_id IN ?", ids).
		Order("sort_order ASC").
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return err
	}

	columnsBySheet := make(map[uuid.UUID][]model.SheetColumn, len(sheets))
	for _, col := range columns {
		columnsBySheet[col.SheetID] = append(columnsBySheet[col.SheetID], col)
	}
	rowsBySheet := make(map[uuid.UUID][]model.SheetRow, len(sheets))
	for _, row := range rows {
		rowsBySheet[row.SheetID] = append(rowsBySheet[row.SheetID], row)
	}

	for i := range sheets {
		sheets[i].Columns = columnsBySheet[sheets[i].ID]
		sheets[i].Rows = rowsBySheet[sheets[i].ID]
		if sheets[i].Columns == nil {
			sheets[i].Columns = []model.SheetColumn{}
		}
		if sheets[i].Rows == nil {
			sheets[i].Rows = []model.SheetRow{}
		}
	}
	return nil
}

// ReplaceColumns deletes every column of the sheet and inserts columns with
// fresh ids. Row cell maps are not touched.
func (r *SheetRepository) ReplaceColumns(ctx context.Context, sheetID uuid.UUID, columns []model.SheetColumn) ([]model.SheetColumn, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceColumns(tx, sheetID, columns)
	})
	if err != nil {
		return nil, err
	}
	return columns, nil
}

// ReplaceRows deletes every row of the sheet and inserts rows with fresh ids.
func (r *SheetRepository) ReplaceRows(ctx context.Context, sheetID uuid.UUID, rows []model.SheetRow) ([]model.SheetRow, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceRows(tx, sheetID, rows)
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SaveMatrix replaces columns, lets buildRows rewrite the rows against the
// newly issued columns, then replaces rows, all in one transaction.
func (r *SheetRepository) SaveMatrix(
	ctx context.Context,
	sheetID uuid.UUID,
	columns []model.SheetColumn,
	buildRows func(saved []model.SheetColumn) []model.SheetRow,
) ([]model.SheetColumn, []model.SheetRow, error) {
	var rows []model.SheetRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replaceColumns(tx, sheetID, columns); err != nil {
			return err
		}
		rows = buildRows(columns)
		return replaceRows(tx, sheetID, rows)
	})
	if err != nil {
		return nil, nil, err
	}
	return columns, rows, nil
}

func replaceColumns(tx *gorm.DB, sheetID uuid.UUID, columns []model.SheetColumn) error {
	if err := tx.Where("sheet_id = ?", sheetID).Delete(&model.SheetColumn{}).Error; err != nil {
		return err
	}
	if len(columns) == 0 {
		return nil
	}
	for i := range columns {
		columns[i].ID = uuid.New()
		columns[i].SheetID = sheetID
	}
	return tx.Create(&columns).Error
}

func replaceRows(tx *gorm.DB, sheetID uuid.UUID, rows []model.SheetRow) error {
	if err := tx.Where("sheet_id = ?", sheetID).Delete(&model.SheetRow{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ID = uuid.New()
		rows[i].SheetID = sheetID
	}
	return tx.Create(&rows).Error
}

func (r *SheetRepository) GetRow(ctx context.Context, id uuid.UUID) (*model.SheetRow, error) {
	var row model.SheetRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// GetRows loads rows by id. Missing ids are simply absent from the result.
func (r *SheetRepository) GetRows(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.SheetRow, error) {
	result := make(map[uuid.UUID]model.SheetRow, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []model.SheetRow
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ID] = row
	}
	return result, nil
}

func (r *SheetRepository) NextRowOrder(ctx context.Context, sheetID uuid.UUID) (int, error) {
	var next int
	err := r.db.WithContext(ctx).
		Model(&model.SheetRow{}).
		Select("COALESCE(MAX(sort_order) + 1, 0)").
		Where("sheet_id = ?", sheetID).
		Scan(&next).Error
	return next, err
}

func (r *SheetRepository) CreateRow(ctx context.Context, row *model.SheetRow) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *SheetRepository) SaveRow(ctx context.Context, row *model.SheetRow) error {
	return r.db.WithContext(ctx).
		Model(row).
		Select("option_name", "popup_content", "popup_image", "sort_order", "prices", "cell_values", "updated_at").
		Updates(row).Error
}

func (r *SheetRepository) DeleteRow(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.SheetRow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
