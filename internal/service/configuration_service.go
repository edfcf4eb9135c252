package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/snowops-contracts/internal/model"
	"github.com/nurpe/snowops-contracts/internal/repository"
)

type ConfigurationService struct {
	configs *repository.ConfigurationRepository
	access  access
}

func NewConfigurationService(configs *repository.ConfigurationRepository, directory Directory) *ConfigurationService {
	return &ConfigurationService{
		configs: configs,
		access:  access{directory: directory},
	}
}

type UnitTypeInput struct {
	Name         string  `json:"name"`
	SortOrder    *int    `json:"sort_order"`
	FloorPlanURL *string `json:"floor_plan_url"`
}

type CreateConfigurationInput struct {
	EventID       uuid.UUID                 `json:"event_id"`
	PaymentStages []model.PaymentStage      `json:"payment_stages"`
	LegalTerms    string                    `json:"legal_terms"`
	SpecialNotes  string                    `json:"special_notes"`
	Status        model.ConfigurationStatus `json:"status"`
	UnitTypes     []UnitTypeInput           `json:"unit_types"`
}

type UpdateConfigurationInput struct {
	PaymentStages *[]model.PaymentStage      `json:"payment_stages"`
	LegalTerms    *string                    `json:"legal_terms"`
	SpecialNotes  *string                    `json:"special_notes"`
	Status        *model.ConfigurationStatus `json:"status"`
}

type UpdateUnitTypeInput struct {
	Name         *string `json:"name"`
	SortOrder    *int    `json:"sort_order"`
	FloorPlanURL *string `json:"floor_plan_url"`
}

func (s *ConfigurationService) Create(ctx context.Context, principal model.Principal, input CreateConfigurationInput) (*model.Configuration, error) {
	if input.EventID == uuid.Nil {
		return nil, fmt.Errorf("%w: event_id is required", ErrInvalidInput)
	}
	if err := validateStages(input.PaymentStages); err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = model.ConfigurationStatusDraft
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	for _, ut := range input.UnitTypes {
		if strings.TrimSpace(ut.Name) == "" {
			return nil, fmt.Errorf("%w: unit type name is required", ErrInvalidInput)
		}
	}

	event, err := s.access.directory.GetEvent(ctx, input.EventID)
	if err != nil {
		return nil, notFound(err, "event")
	}
	if err := s.access.requireOrganizer(ctx, principal, event.OrganizationID); err != nil {
		return nil, err
	}

	exists, err := s.configs.ExistsForEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: event already has a configuration", ErrConflict)
	}

	now := time.Now().UTC()
	cfg := &model.Configuration{
		EventID:        event.ID,
		OrganizationID: event.OrganizationID,
		PaymentStages:  stagesOrEmpty(input.PaymentStages),
		LegalTerms:     input.LegalTerms,
		SpecialNotes:   input.SpecialNotes,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	unitTypes := make([]model.UnitType, len(input.UnitTypes))
	for i, ut := range input.UnitTypes {
		unitTypes[i] = model.UnitType{
			Name:         strings.TrimSpace(ut.Name),
			SortOrder:    orderOr(ut.SortOrder, i),
			FloorPlanURL: ut.FloorPlanURL,
			CreatedAt:    now,
		}
	}
	if err := s.configs.CreateWithUnitTypes(ctx, cfg, unitTypes); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: event already has a configuration", ErrConflict)
		}
		return nil, err
	}

	return s.Get(ctx, cfg.ID)
}

func (s *ConfigurationService) Get(ctx context.Context, id uuid.UUID) (*model.Configuration, error) {
	cfg, err := s.configs.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "configuration")
	}
	return cfg, nil
}

func (s *ConfigurationService) GetByEvent(ctx context.Context, eventID uuid.UUID) (*model.Configuration, error) {
	cfg, err := s.configs.GetByEvent(ctx, eventID)
	if err != nil {
		return nil, notFound(err, "configuration")
	}
	return cfg, nil
}

func (s *ConfigurationService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input UpdateConfigurationInput) (*model.Configuration, error) {
	cfg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.requireOrganizer(ctx, principal, cfg.OrganizationID); err != nil {
		return nil, err
	}

	if input.PaymentStages != nil {
		if err := validateStages(*input.PaymentStages); err != nil {
			return nil, err
		}
		cfg.PaymentStages = stagesOrEmpty(*input.PaymentStages)
	}
	if input.LegalTerms != nil {
		cfg.LegalTerms = *input.LegalTerms
	}
	if input.SpecialNotes != nil {
		cfg.SpecialNotes = *input.SpecialNotes
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *input.Status)
		}
		if !cfg.Status.CanMoveTo(*input.Status) {
			return nil, fmt.Errorf("%w: configuration cannot go from %s to %s", ErrInvalidInput, cfg.Status, *input.Status)
		}
		cfg.Status = *input.Status
	}
	cfg.UpdatedAt = time.Now().UTC()

	if err := s.configs.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *ConfigurationService) AddUnitType(ctx context.Context, principal model.Principal, configurationID uuid.UUID, input UnitTypeInput) (*model.UnitType, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: unit type name is required", ErrInvalidInput)
	}
	cfg, err := s.Get(ctx, configurationID)
	if err != nil {
		return nil, err
	}
	if err := s.access.requireOrganizer(ctx, principal, cfg.OrganizationID); err != nil {
		return nil, err
	}

	order := 0
	if input.SortOrder != nil {
		order = *input.SortOrder
	} else {
		order, err = s.configs.NextUnitTypeOrder(ctx, cfg.ID)
		if err != nil {
			return nil, err
		}
	}

	unitType := &model.UnitType{
		ConfigurationID: cfg.ID,
		Name:            name,
		SortOrder:       order,
		FloorPlanURL:    input.FloorPlanURL,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.configs.CreateUnitType(ctx, unitType); err != nil {
		return nil, err
	}
	return unitType, nil
}

func (s *ConfigurationService) UpdateUnitType(ctx context.Context, principal model.Principal, id uuid.UUID, input UpdateUnitTypeInput) (*model.UnitType, error) {
	unitType, cfg, err := s.loadUnitType(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.requireOrganizer(ctx, principal, cfg.OrganizationID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: unit type name is required", ErrInvalidInput)
		}
		unitType.Name = name
	}
	if input.SortOrder != nil {
		unitType.SortOrder = *input.SortOrder
	}
	if input.FloorPlanURL != nil {
		if *input.FloorPlanURL == "" {
			unitType.FloorPlanURL = nil
		} else {
			unitType.FloorPlanURL = input.FloorPlanURL
		}
	}

	if err := s.configs.SaveUnitType(ctx, unitType); err != nil {
		return nil, err
	}
	return unitType, nil
}

// DeleteUnitType removes the unit type only; sheet columns referencing it stay.
func (s *ConfigurationService) DeleteUnitType(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	_, cfg, err := s.loadUnitType(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.requireOrganizer(ctx, principal, cfg.OrganizationID); err != nil {
		return err
	}
	return notFound(s.configs.DeleteUnitType(ctx, id), "unit type")
}

func (s *ConfigurationService) loadUnitType(ctx context.Context, id uuid.UUID) (*model.UnitType, *model.Configuration, error) {
	unitType, err := s.configs.GetUnitType(ctx, id)
	if err != nil {
		return nil, nil, notFound(err, "unit type")
	}
	cfg, err := s.Get(ctx, unitType.ConfigurationID)
	if err != nil {
		return nil, nil, err
	}
	return unitType, cfg, nil
}

func validateStages(stages []model.PaymentStage) error {
	for _, stage := range stages {
		if strings.TrimSpace(stage.Name) == "" {
			return fmt.Errorf("%w: payment stage name is required", ErrInvalidInput)
		}
		if stage.Ratio < 0 {
			return fmt.Errorf("%w: payment stage ratio must not be negative", ErrInvalidInput)
		}
	}
	return nil
}

func stagesOrEmpty(stages []model.PaymentStage) []model.PaymentStage {
	if stages == nil {
		return []model.PaymentStage{}
	}
	return stages
}

// orderOr returns the explicit sort order when given, otherwise the array position.
func orderOr(explicit *int, position int) int {
	if explicit != nil {
		return *explicit
	}
	return position
}
