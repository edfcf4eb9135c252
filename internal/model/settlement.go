package model

import "github.com/google/uuid"

// Status values of ordinary (non-integrated) contracts.
const (
	LedgerStatusPending    = "pending"
	LedgerStatusInProgress = "in_progress"
	LedgerStatusSigned     = "signed"
	LedgerStatusCompleted  = "completed"
	LedgerStatusCancelled  = "cancelled"
)

// LedgerContract is the slice of an ordinary contract settlement needs.
type LedgerContract struct {
	ID          uuid.UUID
	PartnerID   uuid.UUID
	Status      string
	TotalAmount int64
}

type StatusCounts struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Signed     int `json:"signed"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
	Total      int `json:"total"`
}

type PartnerSettlement struct {
	PartnerID        uuid.UUID    `json:"partner_id"`
	PartnerName      string       `json:"partner_name"`
	Counts           StatusCounts `json:"counts"`
	TotalAmount      int64        `json:"total_amount"`
	SettledAmount    int64        `json:"settled_amount"`
	CommissionRate   float64      `json:"commission_rate"`
	CommissionAmount int64        `json:"commission_amount"`
	PayoutAmount     int64        `json:"payout_amount"`
}

type SettlementTotals struct {
	Counts           StatusCounts `json:"counts"`
	TotalAmount      int64        `json:"total_amount"`
	SettledAmount    int64        `json:"settled_amount"`
	CommissionAmount int64        `json:"commission_amount"`
	PayoutAmount     int64        `json:"payout_amount"`
}

type Settlement struct {
	EventID               uuid.UUID           `json:"event_id"`
	EventName             string              `json:"event_name"`
	DefaultCommissionRate float64             `json:"default_commission_rate"`
	Partners              []PartnerSettlement `json:"partners"`
	Totals                SettlementTotals    `json:"totals"`
}
