package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ConfigurationStatus string

const (
	ConfigurationStatusDraft  ConfigurationStatus = "draft"
	ConfigurationStatusActive ConfigurationStatus = "active"
	ConfigurationStatusClosed ConfigurationStatus = "closed"
)

var configurationStatusRank = map[ConfigurationStatus]int{
	ConfigurationStatusDraft:  0,
	ConfigurationStatusActive: 1,
	ConfigurationStatusClosed: 2,
}

func (s ConfigurationStatus) Valid() bool {
	_, ok := configurationStatusRank[s]
	return ok
}

// CanMoveTo reports whether the lifecycle allows going from s to next.
// Staying in place is allowed, going back is not.
func (s ConfigurationStatus) CanMoveTo(next ConfigurationStatus) bool {
	from, ok := configurationStatusRank[s]
	if !ok {
		return false
	}
	to, ok := configurationStatusRank[next]
	if !ok {
		return false
	}
	return to >= from
}

// PaymentStage is one installment of the configured schedule, Ratio is a percentage.
type PaymentStage struct {
	Name  string  `json:"name"`
	Ratio float64 `json:"ratio"`
}

type Configuration struct {
	ID             uuid.UUID                         `gorm:"type:uuid;primaryKey" json:"id"`
	EventID        uuid.UUID                         `gorm:"type:uuid;not null;uniqueIndex:uq_contract_configuration_event" json:"event_id"`
	OrganizationID uuid.UUID                         `gorm:"type:uuid;not null" json:"organization_id"`
	PaymentStages  datatypes.JSONSlice[PaymentStage] `json:"payment_stages"`
	LegalTerms     string                            `json:"legal_terms"`
	SpecialNotes   string                            `json:"special_notes"`
	Status         ConfigurationStatus               `gorm:"type:varchar(16);not null;default:draft" json:"status"`
	CreatedAt      time.Time                         `json:"created_at"`
	UpdatedAt      time.Time                         `json:"updated_at"`

	UnitTypes []UnitType `gorm:"-" json:"unit_types"`
}

func (Configuration) TableName() string {
	return "contract_configuration"
}

type UnitType struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConfigurationID uuid.UUID `gorm:"type:uuid;not null;index" json:"configuration_id"`
	Name            string    `gorm:"not null" json:"name"`
	SortOrder       int       `gorm:"not null;default:0" json:"sort_order"`
	FloorPlanURL    *string   `json:"floor_plan_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (UnitType) TableName() string {
	return "contract_unit_type"
}
