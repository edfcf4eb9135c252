package model

import "github.com/google/uuid"

// Organization, Membership, Event and User are read from collaborating services.

type Organization struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Membership struct {
	UserID           uuid.UUID
	OrganizationID   uuid.UUID
	OrganizationName string
	Approved         bool
}

type Event struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	InviteCode     string
	CommissionRate float64
}

// EventPartner is an approved partner of an event. CommissionRate overrides
// the event default when set.
type EventPartner struct {
	OrganizationID   uuid.UUID
	OrganizationName string
	CommissionRate   *float64
}

type User struct {
	ID    uuid.UUID
	Name  string
	Phone string
}
