package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/nurpe/snowops-contracts/internal/model"
)

// Directory resolves organizations, memberships, events and users owned by the
// platform. Lookups of unknown ids return gorm.ErrRecordNotFound or ErrNotFound.
type Directory interface {
	GetMembership(ctx context.Context, userID uuid.UUID) (*model.Membership, error)
	GetOrganizations(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Organization, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*model.Event, error)
	GetEventByInviteCode(ctx context.Context, code string) (*model.Event, error)
	ListEventPartners(ctx context.Context, eventID uuid.UUID) ([]model.EventPartner, error)
	IsApprovedPartner(ctx context.Context, eventID, organizationID uuid.UUID) (bool, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type LedgerReader interface {
	ListEventContracts(ctx context.Context, eventID uuid.UUID) ([]model.LedgerContract, error)
}

type NotificationSender interface {
	Send(ctx context.Context, notifications ...model.Notification)
}
