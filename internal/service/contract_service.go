package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/snowops-contracts/internal/config"
	"github.com/nurpe/snowops-contracts/internal/model"
	"github.com/nurpe/snowops-contracts/internal/pricing"
	"github.com/nurpe/snowops-contracts/internal/repository"
)

type ContractService struct {
	configs   *repository.ConfigurationRepository
	sheets    *repository.SheetRepository
	contracts *repository.ContractRepository
	notifier  NotificationSender
	access    access

	codeLength  int
	maxAttempts int
	newCode     func(length int) (string, error)
}

func NewContractService(
	configs *repository.ConfigurationRepository,
	sheets *repository.SheetRepository,
	contracts *repository.ContractRepository,
	directory Directory,
	notifier NotificationSender,
	cfg config.ContractsConfig,
) *ContractService {
	return &ContractService{
		configs:     configs,
		sheets:      sheets,
		contracts:   contracts,
		notifier:    notifier,
		access:      access{directory: directory},
		codeLength:  cfg.CodeLength,
		maxAttempts: cfg.CodeMaxAttempts,
		newCode:     randomCode,
	}
}

// Selection points at one priced cell. ColumnID is the column the caller
// matched for the chosen unit type; nil falls back to the first positive price.
type Selection struct {
	SheetID  uuid.UUID  `json:"sheet_id"`
	RowID    uuid.UUID  `json:"row_id"`
	ColumnID *uuid.UUID `json:"column_id"`
}

type CreateContractInput struct {
	ConfigurationID uuid.UUID   `json:"configuration_id"`
	UnitTypeID      uuid.UUID   `json:"unit_type_id"`
	Selections      []Selection `json:"selections"`
	LegalAgreed     bool        `json:"legal_agreed"`
	Signature       string      `json:"signature"`
	CustomerName    *string     `json:"customer_name"`
	CustomerPhone   *string     `json:"customer_phone"`
}

func (s *ContractService) Create(ctx context.Context, principal model.Principal, input CreateContractInput) (*model.IntegratedContract, error) {
	if !input.LegalAgreed {
		return nil, fmt.Errorf("%w: legal agreement is required", ErrInvalidInput)
	}
	if len(input.Selections) == 0 {
		return nil, fmt.Errorf("%w: at least one selection is required", ErrInvalidInput)
	}
	if !principal.IsCustomer() {
		return nil, fmt.Errorf("%w: only customers can sign integrated contracts", ErrPermissionDenied)
	}

	cfg, err := s.configs.Get(ctx, input.ConfigurationID)
	if err != nil {
		return nil, notFound(err, "configuration")
	}
	if cfg.Status == model.ConfigurationStatusClosed {
		return nil, fmt.Errorf("%w: configuration is closed", ErrInvalidInput)
	}
	unitType, ok := findUnitType(cfg.UnitTypes, input.UnitTypeID)
	if !ok {
		return nil, fmt.Errorf("%w: unit type %s", ErrNotFound, input.UnitTypeID)
	}

	items, total, err := s.snapshot(ctx, cfg, input.Selections)
	if err != nil {
		return nil, err
	}

	customer, err := s.access.directory.GetUser(ctx, principal.UserID)
	if err != nil {
		return nil, notFound(err, "customer")
	}

	now := time.Now().UTC()
	contract := &model.IntegratedContract{
		ConfigurationID: cfg.ID,
		EventID:         cfg.EventID,
		UnitTypeID:      unitType.ID,
		UnitTypeName:    unitType.Name,
		CustomerID:      principal.UserID,
		CustomerName:    override(input.CustomerName, customer.Name),
		CustomerPhone:   override(input.CustomerPhone, customer.Phone),
		SelectedItems:   items,
		TotalAmount:     total,
		PaymentSchedule: pricing.PaymentSchedule(total, cfg.PaymentStages),
		LegalAgreed:     true,
		Signature:       input.Signature,
		Status:          model.ContractStatusSigned,
		SignedAt:        &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	code, err := s.allocateCode(ctx)
	if err != nil {
		return nil, err
	}
	contract.Code = code
	if err := s.contracts.Create(ctx, contract); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: contract code %s already taken", ErrConflict, code)
		}
		return nil, err
	}

	s.notifier.Send(ctx, signedNotifications(contract, cfg.OrganizationID)...)
	return contract, nil
}

// snapshot resolves every selection to a frozen item. Names come from the
// current sheet and partner organization and are never refreshed later.
func (s *ContractService) snapshot(ctx context.Context, cfg *model.Configuration, selections []Selection) ([]model.SnapshotItem, int64, error) {
	rowIDs := make([]uuid.UUID, 0, len(selections))
	sheetIDs := make([]uuid.UUID, 0, len(selections))
	for _, sel := range selections {
		rowIDs = append(rowIDs, sel.RowID)
		sheetIDs = append(sheetIDs, sel.SheetID)
	}

	rows, err := s.sheets.GetRows(ctx, uniqueIDs(rowIDs))
	if err != nil {
		return nil, 0, err
	}
	sheets, err := s.sheets.ListByIDs(ctx, uniqueIDs(sheetIDs))
	if err != nil {
		return nil, 0, err
	}

	partnerIDs := make([]uuid.UUID, 0, len(sheets))
	for _, sheet := range sheets {
		partnerIDs = append(partnerIDs, sheet.OrganizationID)
	}
	partners, err := s.access.directory.GetOrganizations(ctx, uniqueIDs(partnerIDs))
	if err != nil {
		return nil, 0, err
	}

	items := make([]model.SnapshotItem, 0, len(selections))
	var total int64
	for _, sel := range selections {
		row, ok := rows[sel.RowID]
		if !ok || row.SheetID != sel.SheetID {
			return nil, 0, fmt.Errorf("%w: row %s", ErrNotFound, sel.RowID)
		}
		sheet, ok := sheets[sel.SheetID]
		if !ok || sheet.ConfigurationID != cfg.ID {
			return nil, 0, fmt.Errorf("%w: sheet %s", ErrNotFound, sel.SheetID)
		}

		columnID := uuid.Nil
		if sel.ColumnID != nil {
			columnID = *sel.ColumnID
		}
		price := pricing.ToMinorUnits(pricing.ResolveRowPrice(row, columnID, sheet.Columns))

		items = append(items, model.SnapshotItem{
			SheetID:      sheet.ID,
			RowID:        row.ID,
			ColumnID:     sel.ColumnID,
			PartnerID:    sheet.OrganizationID,
			OptionName:   row.OptionName,
			CategoryName: sheet.CategoryName,
			PartnerName:  partners[sheet.OrganizationID].Name,
			UnitPrice:    price,
		})
		total += price
	}
	return items, total, nil
}

// allocateCode draws codes until one is free. The unique index on insert
// still catches races between concurrent checkouts.
func (s *ContractService) allocateCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		code, err := s.newCode(s.codeLength)
		if err != nil {
			return "", err
		}
		exists, err := s.contracts.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: no free contract code after %d attempts", ErrConflict, s.maxAttempts)
}

func (s *ContractService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.IntegratedContract, error) {
	contract, err := s.contracts.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "contract")
	}
	if principal.IsAdmin() || contract.CustomerID == principal.UserID {
		return contract, nil
	}

	orgID, err := s.access.organization(ctx, principal)
	if err != nil {
		return nil, err
	}
	cfg, err := s.configs.Get(ctx, contract.ConfigurationID)
	if err != nil {
		return nil, notFound(err, "configuration")
	}
	if orgID == cfg.OrganizationID {
		return contract, nil
	}
	contributed, err := s.contracts.HasPartner(ctx, contract.ID, orgID)
	if err != nil {
		return nil, err
	}
	if !contributed {
		return nil, ErrPermissionDenied
	}
	return contract, nil
}

// GetByCode is the public lookup customers use with their short code.
func (s *ContractService) GetByCode(ctx context.Context, code string) (*model.IntegratedContract, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	contract, err := s.contracts.GetByCode(ctx, code)
	if err != nil {
		return nil, notFound(err, "contract")
	}
	return contract, nil
}

func (s *ContractService) ListByEvent(ctx context.Context, principal model.Principal, eventID uuid.UUID) ([]model.IntegratedContract, error) {
	event, err := s.access.directory.GetEvent(ctx, eventID)
	if err != nil {
		return nil, notFound(err, "event")
	}
	if err := s.access.requireOrganizer(ctx, principal, event.OrganizationID); err != nil {
		return nil, err
	}
	return s.contracts.ListByEvent(ctx, event.ID)
}

// ListForPartner lists contracts the caller's organization contributed items to.
func (s *ContractService) ListForPartner(ctx context.Context, principal model.Principal) ([]model.IntegratedContract, error) {
	orgID, err := s.access.organization(ctx, principal)
	if err != nil {
		return nil, err
	}
	return s.contracts.ListByPartner(ctx, orgID)
}

func (s *ContractService) ListForCustomer(ctx context.Context, principal model.Principal) ([]model.IntegratedContract, error) {
	return s.contracts.ListByCustomer(ctx, principal.UserID)
}

// UpdateStatus moves a contract along its lifecycle. Only the organizer of the
// event or an admin may do so.
func (s *ContractService) UpdateStatus(ctx context.Context, principal model.Principal, id uuid.UUID, status model.ContractStatus) (*model.IntegratedContract, error) {
	contract, err := s.contracts.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "contract")
	}
	cfg, err := s.configs.Get(ctx, contract.ConfigurationID)
	if err != nil {
		return nil, notFound(err, "configuration")
	}
	if err := s.access.requireOrganizer(ctx, principal, cfg.OrganizationID); err != nil {
		return nil, err
	}
	if !contract.Status.CanMoveTo(status) {
		return nil, fmt.Errorf("%w: contract cannot go from %s to %s", ErrInvalidInput, contract.Status, status)
	}

	now := time.Now().UTC()
	switch status {
	case model.ContractStatusSigned:
		contract.SignedAt = &now
	case model.ContractStatusCancelled:
		contract.CancelledAt = &now
	}
	contract.Status = status
	contract.UpdatedAt = now

	if err := s.contracts.UpdateStatus(ctx, contract.ID, status, contract.SignedAt, contract.CancelledAt); err != nil {
		return nil, notFound(err, "contract")
	}
	return contract, nil
}

func signedNotifications(contract *model.IntegratedContract, organizerID uuid.UUID) []model.Notification {
	body := fmt.Sprintf("Contract %s for %s, total %d.", contract.Code, contract.UnitTypeName, contract.TotalAmount)
	base := model.Notification{
		Kind:         "integrated_contract_signed",
		Body:         body,
		ContractID:   contract.ID,
		ContractCode: contract.Code,
	}

	out := make([]model.Notification, 0, len(contract.SelectedItems)+2)
	customer := base
	customer.RecipientKind = model.RecipientUser
	customer.RecipientID = contract.CustomerID
	customer.Title = "Your contract is signed"
	out = append(out, customer)

	for _, partnerID := range contract.PartnerIDs() {
		n := base
		n.RecipientKind = model.RecipientOrganization
		n.RecipientID = partnerID
		n.Title = "New integrated contract"
		out = append(out, n)
	}

	organizer := base
	organizer.RecipientKind = model.RecipientOrganization
	organizer.RecipientID = organizerID
	organizer.Title = "Customer signed an integrated contract"
	return append(out, organizer)
}

func findUnitType(unitTypes []model.UnitType, id uuid.UUID) (model.UnitType, bool) {
	for _, ut := range unitTypes {
		if ut.ID == id {
			return ut, true
		}
	}
	return model.UnitType{}, false
}

func override(value *string, fallback string) string {
	if value != nil && strings.TrimSpace(*value) != "" {
		return strings.TrimSpace(*value)
	}
	return fallback
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
