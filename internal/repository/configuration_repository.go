package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/snowops-contracts/internal/model"
)

type ConfigurationRepository struct {
	db *gorm.DB
}

func NewConfigurationRepository(db *gorm.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db}
}

// CreateWithUnitTypes inserts a configuration together with its initial
// unit types in one transaction. A second configuration for the same event
// fails with gorm.ErrDuplicatedKey.
func (r *ConfigurationRepository) CreateWithUnitTypes(ctx context.Context, cfg *model.Configuration, unitTypes []model.UnitType) error {
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cfg).Error; err != nil {
			return err
		}
		if len(unitTypes) == 0 {
			return nil
		}
		for i := range unitTypes {
			unitTypes[i].ConfigurationID = cfg.ID
			if unitTypes[i].ID == uuid.Nil {
				unitTypes[i].ID = uuid.New()
			}
		}
		return tx.Create(&unitTypes).Error
	})
}

func (r *ConfigurationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Configuration, error) {
	var cfg model.Configuration
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&cfg).Error; err != nil {
		return nil, err
	}
	if err := r.loadUnitTypes(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *ConfigurationRepository) GetByEvent(ctx context.Context, eventID uuid.UUID) (*model.Configuration, error) {
	var cfg model.Configuration
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).First(&cfg).Error; err != nil {
		return nil, err
	}
	if err := r.loadUnitTypes(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *ConfigurationRepository) ExistsForEvent(ctx context.Context, eventID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Configuration{}).Where("event_id = ?", eventID).Count(&count).Error
	return count > 0, err
}

func (r *ConfigurationRepository) Save(ctx context.Context, cfg *model.Configuration) error {
	return r.db.WithContext(ctx).
		Model(cfg).
		Select("payment_stages", "legal_terms", "special_notes", "status", "updated_at").
		Updates(cfg).Error
}

func (r *ConfigurationRepository) loadUnitTypes(ctx context.Context, cfg *model.Configuration) error {
	unitTypes, err := r.ListUnitTypes(ctx, cfg.ID)
	if err != nil {
		return err
	}
	cfg.UnitTypes = unitTypes
	return nil
}

func (r *ConfigurationRepository) ListUnitTypes(ctx context.Context, configurationID uuid.UUID) ([]model.UnitType, error) {
	unitTypes := []model.UnitType{}
	err := r.db.WithContext(ctx).
		Where("configuration_id = ?", configurationID).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&unitTypes).Error
	return unitTypes, err
}

func (r *ConfigurationRepository) GetUnitType(ctx context.Context, id uuid.UUID) (*model.UnitType, error) {
	var unitType model.UnitType
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&unitType).Error; err != nil {
		return nil, err
	}
	return &unitType, nil
}

func (r *ConfigurationRepository) NextUnitTypeOrder(ctx context.Context, configurationID uuid.UUID) (int, error) {
	var next int
	err := r.db.WithContext(ctx).
		Model(&model.UnitType{}).
		Select("COALESCE(MAX(sort_order) + 1, 0)").
		Where("configuration_id = ?", configurationID).
		Scan(&next).Error
	return next, err
}

func (r *ConfigurationRepository) CreateUnitType(ctx context.Context, unitType *model.UnitType) error {
	if unitType.ID == uuid.Nil {
		unitType.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(unitType).Error
}

func (r *ConfigurationRepository) SaveUnitType(ctx context.Context, unitType *model.UnitType) error {
	return r.db.WithContext(ctx).
		Model(unitType).
		Select("name", "sort_order", "floor_plan_url").
		Updates(unitType).Error
}

// DeleteUnitType removes only the unit type. Columns pointing at it are left
// alone and simply stop matching.
func (r *ConfigurationRepository) DeleteUnitType(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.UnitType{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
