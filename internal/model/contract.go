package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "draft"
	ContractStatusSigned    ContractStatus = "signed"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusCancelled ContractStatus = "cancelled"
)

// CanMoveTo reports whether an integrated contract may go from s to next.
func (s ContractStatus) CanMoveTo(next ContractStatus) bool {
	switch s {
	case ContractStatusDraft:
		return next == ContractStatusSigned || next == ContractStatusCancelled
	case ContractStatusSigned:
		return next == ContractStatusCompleted || next == ContractStatusCancelled
	}
	return false
}

// SnapshotItem is a selected option frozen at signing time. It never points
// back to live sheet data beyond the ids kept for reference.
type SnapshotItem struct {
	SheetID      uuid.UUID  `json:"sheet_id"`
	RowID        uuid.UUID  `json:"row_id"`
	ColumnID     *uuid.UUID `json:"column_id,omitempty"`
	PartnerID    uuid.UUID  `json:"partner_id"`
	OptionName   string     `json:"option_name"`
	CategoryName string     `json:"category_name"`
	PartnerName  string     `json:"partner_name"`
	UnitPrice    int64      `json:"unit_price"`
}

type ScheduleEntry struct {
	Name   string  `json:"name"`
	Ratio  float64 `json:"ratio"`
	Amount int64   `json:"amount"`
}

type IntegratedContract struct {
	ID              uuid.UUID                          `gorm:"type:uuid;primaryKey" json:"id"`
	ConfigurationID uuid.UUID                          `gorm:"type:uuid;not null;index" json:"configuration_id"`
	EventID         uuid.UUID                          `gorm:"type:uuid;not null;index" json:"event_id"`
	UnitTypeID      uuid.UUID                          `gorm:"type:uuid;not null" json:"unit_type_id"`
	UnitTypeName    string                             `json:"unit_type_name"`
	CustomerID      uuid.UUID                          `gorm:"type:uuid;not null;index" json:"customer_id"`
	CustomerName    string                             `json:"customer_name"`
	CustomerPhone   string                             `json:"customer_phone"`
	Code            string                             `gorm:"type:varchar(32);not null;uniqueIndex:uq_integrated_contract_code" json:"code"`
	SelectedItems   datatypes.JSONSlice[SnapshotItem]  `json:"selected_items"`
	TotalAmount     int64                              `gorm:"not null" json:"total_amount"`
	PaymentSchedule datatypes.JSONSlice[ScheduleEntry] `json:"payment_schedule"`
	LegalAgreed     bool                               `gorm:"not null" json:"legal_agreed"`
	Signature       string                             `json:"signature,omitempty"`
	Status          ContractStatus                     `gorm:"type:varchar(16);not null" json:"status"`
	SignedAt        *time.Time                         `json:"signed_at,omitempty"`
	CancelledAt     *time.Time                         `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time                          `json:"created_at"`
	UpdatedAt       time.Time                          `json:"updated_at"`
}

func (IntegratedContract) TableName() string {
	return "integrated_contract"
}

// PublicContract is what an unauthenticated code lookup may see.
type PublicContract struct {
	Code            string          `json:"code"`
	EventID         uuid.UUID       `json:"event_id"`
	UnitTypeName    string          `json:"unit_type_name"`
	CustomerName    string          `json:"customer_name"`
	SelectedItems   []SnapshotItem  `json:"selected_items"`
	TotalAmount     int64           `json:"total_amount"`
	PaymentSchedule []ScheduleEntry `json:"payment_schedule"`
	Status          ContractStatus  `json:"status"`
	SignedAt        *time.Time      `json:"signed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Public drops the signature and contact details.
func (c IntegratedContract) Public() PublicContract {
	return PublicContract{
		Code:            c.Code,
		EventID:         c.EventID,
		UnitTypeName:    c.UnitTypeName,
		CustomerName:    c.CustomerName,
		SelectedItems:   c.SelectedItems,
		TotalAmount:     c.TotalAmount,
		PaymentSchedule: c.PaymentSchedule,
		Status:          c.Status,
		SignedAt:        c.SignedAt,
		CreatedAt:       c.CreatedAt,
	}
}

// PartnerIDs returns the distinct partner organizations in selection order.
func (c IntegratedContract) PartnerIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(c.SelectedItems))
	ids := make([]uuid.UUID, 0, len(c.SelectedItems))
	for _, item := range c.SelectedItems {
		if _, ok := seen[item.PartnerID]; ok {
			continue
		}
		seen[item.PartnerID] = struct{}{}
		ids = append(ids, item.PartnerID)
	}
	return ids
}

type IntegratedContractPartner struct {
	ContractID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (IntegratedContractPartner) TableName() string {
	return "integrated_contract_partner"
}
