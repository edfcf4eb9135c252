package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/snowops-contracts/internal/model"
)

// DirectoryRepository reads organizations, memberships, events, event partners
// and users owned by the platform services.
type DirectoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

func (r *DirectoryRepository) GetMembership(ctx context.Context, userID uuid.UUID) (*model.Membership, error) {
	var row struct {
		UserID           uuid.UUID
		OrganizationID   uuid.UUID
		OrganizationName string
		Status           string
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			m.user_id,
			m.organization_id,
			o.name AS organization_name,
			m.status
		FROM organization_members m
		JOIN organizations o ON o.id = m.organization_id
		WHERE m.user_id = ?
		ORDER BY CASE WHEN m.status = 'approved' THEN 0 ELSE 1 END
		LIMIT 1
	`, userID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.OrganizationID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.Membership{
		UserID:           row.UserID,
		OrganizationID:   row.OrganizationID,
		OrganizationName: row.OrganizationName,
		Approved:         strings.EqualFold(row.Status, "approved"),
	}, nil
}

func (r *DirectoryRepository) GetOrganizations(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Organization, error) {
	result := make(map[uuid.UUID]model.Organization, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var orgs []model.Organization
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name
		FROM organizations
		WHERE id IN ?
	`, ids).Scan(&orgs).Error; err != nil {
		return nil, err
	}
	for _, org := range orgs {
		result[org.ID] = org
	}
	return result, nil
}

const eventColumns = `
	SELECT
		id,
		organization_id,
		name,
		invite_code,
		COALESCE(commission_rate, 0) AS commission_rate
	FROM events
`

func (r *DirectoryRepository) GetEvent(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Raw(eventColumns+` WHERE id = ? LIMIT 1`, id).Scan(&event).Error; err != nil {
		return nil, err
	}
	if event.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &event, nil
}

func (r *DirectoryRepository) GetEventByInviteCode(ctx context.Context, code string) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Raw(eventColumns+` WHERE invite_code = ? LIMIT 1`, code).Scan(&event).Error; err != nil {
		return nil, err
	}
	if event.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &event, nil
}

func (r *DirectoryRepository) ListEventPartners(ctx context.Context, eventID uuid.UUID) ([]model.EventPartner, error) {
	partners := []model.EventPartner{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			ep.organization_id,
			o.name AS organization_name,
			ep.commission_rate
		FROM event_partners ep
		JOIN organizations o ON o.id = ep.organization_id
		WHERE ep.event_id = ?
			AND ep.status = 'approved'
		ORDER BY o.name ASC
	`, eventID).Scan(&partners).Error
	return partners, err
}

func (r *DirectoryRepository) IsApprovedPartner(ctx context.Context, eventID, organizationID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM event_partners
		WHERE event_id = ?
			AND organization_id = ?
			AND status = 'approved'
	`, eventID, organizationID).Scan(&count).Error
	return count > 0, err
}

func (r *DirectoryRepository) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, COALESCE(name, '') AS name, COALESCE(phone, '') AS phone
		FROM users
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&user).Error; err != nil {
		return nil, err
	}
	if user.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}
