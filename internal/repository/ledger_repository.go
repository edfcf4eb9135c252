package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/snowops-contracts/internal/model"
)

// LedgerRepository reads the ordinary per-partner contracts that settlement
// is computed from.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) ListEventContracts(ctx context.Context, eventID uuid.UUID) ([]model.LedgerContract, error) {
	contracts := []model.LedgerContract{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			partner_organization_id AS partner_id,
			status,
			COALESCE(total_amount, 0) AS total_amount
		FROM contracts
		WHERE event_id = ?
			AND partner_organization_id IS NOT NULL
		ORDER BY created_at ASC
	`, eventID).Scan(&contracts).Error
	return contracts, err
}
