package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SheetStatus string

const (
	SheetStatusDraft    SheetStatus = "draft"
	SheetStatusActive   SheetStatus = "active"
	SheetStatusInactive SheetStatus = "inactive"
)

func (s SheetStatus) Valid() bool {
	switch s {
	case SheetStatusDraft, SheetStatusActive, SheetStatusInactive:
		return true
	}
	return false
}

// Visible reports whether the sheet takes part in the merged customer flow.
func (s SheetStatus) Visible() bool {
	return s == SheetStatusDraft || s == SheetStatusActive
}

type ColumnType string

const (
	ColumnTypeAmount ColumnType = "amount"
	ColumnTypeText   ColumnType = "text"
)

func (t ColumnType) Valid() bool {
	return t == ColumnTypeAmount || t == ColumnTypeText
}

// PriceMap holds numeric prices keyed by column id.
type PriceMap map[uuid.UUID]float64

// CellMap holds raw cell content keyed by column id.
type CellMap map[uuid.UUID]string

type PartnerSheet struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ConfigurationID uuid.UUID   `gorm:"type:uuid;not null;index:idx_partner_sheet_configuration" json:"configuration_id"`
	OrganizationID  uuid.UUID   `gorm:"type:uuid;not null;index:idx_partner_sheet_configuration" json:"organization_id"`
	CategoryName    string      `json:"category_name"`
	Memo            string      `json:"memo"`
	Status          SheetStatus `gorm:"type:varchar(16);not null;default:draft" json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	Columns []SheetColumn `gorm:"-" json:"columns"`
	Rows    []SheetRow    `gorm:"-" json:"rows"`
}

func (PartnerSheet) TableName() string {
	return "partner_sheet"
}

type SheetColumn struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SheetID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"sheet_id"`
	UnitTypeID *uuid.UUID `gorm:"type:uuid" json:"unit_type_id,omitempty"`
	CustomName string     `json:"custom_name"`
	ColumnType ColumnType `gorm:"type:varchar(16);not null;default:amount" json:"column_type"`
	SortOrder  int        `gorm:"not null;default:0" json:"sort_order"`
}

func (SheetColumn) TableName() string {
	return "sheet_column"
}

type SheetRow struct {
	ID           uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	SheetID      uuid.UUID                    `gorm:"type:uuid;not null;index" json:"sheet_id"`
	OptionName   string                       `gorm:"not null" json:"option_name"`
	PopupContent string                       `json:"popup_content"`
	PopupImage   string                       `json:"popup_image,omitempty"`
	SortOrder    int                          `gorm:"not null;default:0" json:"sort_order"`
	Prices       datatypes.JSONType[PriceMap] `json:"prices"`
	CellValues   datatypes.JSONType[CellMap]  `json:"cell_values"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
}

func (SheetRow) TableName() string {
	return "sheet_row"
}

// PriceMap returns the row prices, never nil.
func (r SheetRow) PriceMap() PriceMap {
	m := r.Prices.Data()
	if m == nil {
		return PriceMap{}
	}
	return m
}

// CellMap returns the row cell values, never nil.
func (r SheetRow) CellMap() CellMap {
	m := r.CellValues.Data()
	if m == nil {
		return CellMap{}
	}
	return m
}

func NewRowMaps(prices PriceMap, cells CellMap) (datatypes.JSONType[PriceMap], datatypes.JSONType[CellMap]) {
	if prices == nil {
		prices = PriceMap{}
	}
	if cells == nil {
		cells = CellMap{}
	}
	return datatypes.NewJSONType(prices), datatypes.NewJSONType(cells)
}
