package model

import "github.com/google/uuid"

type RecipientKind string

const (
	RecipientUser         RecipientKind = "user"
	RecipientOrganization RecipientKind = "organization"
)

type Notification struct {
	RecipientKind RecipientKind `json:"recipient_kind"`
	RecipientID   uuid.UUID     `json:"recipient_id"`
	Kind          string        `json:"kind"`
	Title         string        `json:"title"`
	Body          string        `json:"body"`
	ContractID    uuid.UUID     `json:"contract_id"`
	ContractCode  string        `json:"contract_code"`
}
