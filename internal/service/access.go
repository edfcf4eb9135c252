package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/snowops-contracts/internal/model"
)

type access struct {
	directory Directory
}

// organization resolves the caller's approved organization.
func (a access) organization(ctx context.Context, principal model.Principal) (uuid.UUID, error) {
	membership, err := a.directory.GetMembership(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound) {
			return uuid.Nil, fmt.Errorf("%w: caller has no organization", ErrPermissionDenied)
		}
		return uuid.Nil, err
	}
	if !membership.Approved {
		return uuid.Nil, fmt.Errorf("%w: organization membership is not approved", ErrPermissionDenied)
	}
	return membership.OrganizationID, nil
}

// requireOrganizer allows admins and members of organizerID.
func (a access) requireOrganizer(ctx context.Context, principal model.Principal, organizerID uuid.UUID) error {
	if principal.IsAdmin() {
		return nil
	}
	orgID, err := a.organization(ctx, principal)
	if err != nil {
		return err
	}
	if orgID != organizerID {
		return ErrPermissionDenied
	}
	return nil
}

// requireSheetEditor allows admins, the sheet's partner organization and the
// organizer of the configuration's event.
func (a access) requireSheetEditor(ctx context.Context, principal model.Principal, sheet *model.PartnerSheet, cfg *model.Configuration) error {
	if principal.IsAdmin() {
		return nil
	}
	orgID, err := a.organization(ctx, principal)
	if err != nil {
		return err
	}
	if orgID != sheet.OrganizationID && orgID != cfg.OrganizationID {
		return ErrPermissionDenied
	}
	return nil
}
