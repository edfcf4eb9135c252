package model

import "github.com/google/uuid"

// Flow is the merged, customer-facing view of every visible sheet of a configuration.
type Flow struct {
	ConfigurationID uuid.UUID      `json:"configuration_id"`
	EventID         uuid.UUID      `json:"event_id"`
	UnitTypeID      *uuid.UUID     `json:"unit_type_id,omitempty"`
	UnitTypes       []UnitType     `json:"unit_types"`
	PaymentStages   []PaymentStage `json:"payment_stages"`
	LegalTerms      string         `json:"legal_terms"`
	SpecialNotes    string         `json:"special_notes"`
	Partners        []FlowPartner  `json:"partners"`
}

type FlowPartner struct {
	PartnerID   uuid.UUID      `json:"partner_id"`
	PartnerName string         `json:"partner_name"`
	Categories  []FlowCategory `json:"categories"`
}

type FlowCategory struct {
	SheetID      uuid.UUID     `json:"sheet_id"`
	CategoryName string        `json:"category_name"`
	Memo         string        `json:"memo"`
	Columns      []SheetColumn `json:"columns"`
	Options      []FlowOption  `json:"options"`
}

type FlowOption struct {
	RowID        uuid.UUID  `json:"row_id"`
	OptionName   string     `json:"option_name"`
	PopupContent string     `json:"popup_content"`
	PopupImage   string     `json:"popup_image,omitempty"`
	SortOrder    int        `json:"sort_order"`
	Prices       PriceMap   `json:"prices"`
	CellValues   CellMap    `json:"cell_values"`
	UnitPrice    *int64     `json:"unit_price,omitempty"`
	ColumnID     *uuid.UUID `json:"column_id,omitempty"`
}
