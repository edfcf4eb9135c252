package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleAdmin     UserRole = "ADMIN"
	UserRoleOrganizer UserRole = "ORGANIZER"
	UserRolePartner   UserRole = "PARTNER"
	UserRoleCustomer  UserRole = "CUSTOMER"
)

type Principal struct {
	UserID uuid.UUID
	Role   UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

func (p Principal) IsOrganizer() bool {
	return p.Role == UserRoleOrganizer
}

func (p Principal) IsPartner() bool {
	return p.Role == UserRolePartner
}

func (p Principal) IsCustomer() bool {
	return p.Role == UserRoleCustomer
}
