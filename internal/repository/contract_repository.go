package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/snowops-contracts/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.IntegratedContract{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// Create inserts the contract and its partner index rows in one transaction.
// A code collision surfaces as gorm.ErrDuplicatedKey.
func (r *ContractRepository) Create(ctx context.Context, contract *model.IntegratedContract) error {
	if contract.ID == uuid.Nil {
		contract.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(contract).Error; err != nil {
			return err
		}
		partnerIDs := contract.PartnerIDs()
		if len(partnerIDs) == 0 {
			return nil
		}
		links := make([]model.IntegratedContractPartner, len(partnerIDs))
		for i, partnerID := range partnerIDs {
			links[i] = model.IntegratedContractPartner{ContractID: contract.ID, OrganizationID: partnerID}
		}
		return tx.Create(&links).Error
	})
}

func (r *ContractRepository) Get(ctx context.Context, id uuid.UUID) (*model.IntegratedContract, error) {
	var contract model.IntegratedContract
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&contract).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) GetByCode(ctx context.Context, code string) (*model.IntegratedContract, error) {
	var contract model.IntegratedContract
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&contract).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]model.IntegratedContract, error) {
	contracts := []model.IntegratedContract{}
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&contracts).Error
	return contracts, err
}

func (r *ContractRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.IntegratedContract, error) {
	contracts := []model.IntegratedContract{}
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&contracts).Error
	return contracts, err
}

func (r *ContractRepository) ListByPartner(ctx context.Context, organizationID uuid.UUID) ([]model.IntegratedContract, error) {
	contracts := []model.IntegratedContract{}
	db := r.db.WithContext(ctx)
	err := db.
		Where("id IN (?)", db.Model(&model.IntegratedContractPartner{}).
			Select("contract_id").
			Where("organization_id = ?", organizationID)).
		Order("created_at DESC").
		Find(&contracts).Error
	return contracts, err
}

func (r *ContractRepository) HasPartner(ctx context.Context, contractID, organizationID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.IntegratedContractPartner{}).
		Where("contract_id = ? AND organization_id = ?", contractID, organizationID).
		Count(&count).Error
	return count > 0, err
}

// UpdateStatus changes the only mutable fields of a contract.
func (r *ContractRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status model.ContractStatus,
	signedAt *time.Time,
	cancelledAt *time.Time,
) error {
	result := r.db.WithContext(ctx).
		Model(&model.IntegratedContract{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"signed_at":    signedAt,
			"cancelled_at": cancelledAt,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
