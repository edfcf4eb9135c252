package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/nurpe/snowops-contracts/internal/model"
	"github.com/nurpe/snowops-contracts/internal/pricing"
	"github.com/nurpe/snowops-contracts/internal/repository"
)

var visibleSheetStatuses = []model.SheetStatus{model.SheetStatusDraft, model.SheetStatusActive}

// FlowService serves the merged customer view. It is public and read-only.
type FlowService struct {
	configs   *repository.ConfigurationRepository
	sheets    *repository.SheetRepository
	directory Directory
}

func NewFlowService(
	configs *repository.ConfigurationRepository,
	sheets *repository.SheetRepository,
	directory Directory,
) *FlowService {
	return &FlowService{configs: configs, sheets: sheets, directory: directory}
}

func (s *FlowService) ByEvent(ctx context.Context, eventID uuid.UUID, unitTypeID *uuid.UUID) (*model.Flow, error) {
	cfg, err := s.configs.GetByEvent(ctx, eventID)
	if err != nil {
		return nil, notFound(err, "configuration")
	}
	return s.build(ctx, cfg, unitTypeID)
}

func (s *FlowService) ByInviteCode(ctx context.Context, code string, unitTypeID *uuid.UUID) (*model.Flow, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: invite code is required", ErrInvalidInput)
	}
	event, err := s.directory.GetEventByInviteCode(ctx, code)
	if err != nil {
		return nil, notFound(err, "event")
	}
	return s.ByEvent(ctx, event.ID, unitTypeID)
}

func (s *FlowService) build(ctx context.Context, cfg *model.Configuration, unitTypeID *uuid.UUID) (*model.Flow, error) {
	if unitTypeID != nil {
		if _, ok := findUnitType(cfg.UnitTypes, *unitTypeID); !ok {
			return nil, fmt.Errorf("%w: unit type %s", ErrNotFound, *unitTypeID)
		}
	}

	sheets, err := s.sheets.ListByConfiguration(ctx, cfg.ID, visibleSheetStatuses)
	if err != nil {
		return nil, err
	}
	partnerIDs := make([]uuid.UUID, 0, len(sheets))
	for _, sheet := range sheets {
		partnerIDs = append(partnerIDs, sheet.OrganizationID)
	}
	partners, err := s.directory.GetOrganizations(ctx, uniqueIDs(partnerIDs))
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(partners))
	for id, org := range partners {
		names[id] = org.Name
	}
	flow := mergeFlow(cfg, sheets, names, unitTypeID)
	return &flow, nil
}

// mergeFlow groups sheets by partner in the order each partner's first sheet
// appears. Sheets must already be ordered by creation time. With a unit type,
// each option gets the price of the first column bound to it, or the
// fallback price when the sheet has no such column.
func mergeFlow(cfg *model.Configuration, sheets []model.PartnerSheet, partnerNames map[uuid.UUID]string, unitTypeID *uuid.UUID) model.Flow {
	flow := model.Flow{
		ConfigurationID: cfg.ID,
		EventID:         cfg.EventID,
		UnitTypeID:      unitTypeID,
		UnitTypes:       cfg.UnitTypes,
		PaymentStages:   stagesOrEmpty(cfg.PaymentStages),
		LegalTerms:      cfg.LegalTerms,
		SpecialNotes:    cfg.SpecialNotes,
		Partners:        []model.FlowPartner{},
	}
	if flow.UnitTypes == nil {
		flow.UnitTypes = []model.UnitType{}
	}

	index := make(map[uuid.UUID]int)
	for _, sheet := range sheets {
		if !sheet.Status.Visible() {
			continue
		}
		pos, ok := index[sheet.OrganizationID]
		if !ok {
			flow.Partners = append(flow.Partners, model.FlowPartner{
				PartnerID:   sheet.OrganizationID,
				PartnerName: partnerNames[sheet.OrganizationID],
				Categories:  []model.FlowCategory{},
			})
			pos = len(flow.Partners) - 1
			index[sheet.OrganizationID] = pos
		}
		flow.Partners[pos].Categories = append(flow.Partners[pos].Categories, flowCategory(sheet, unitTypeID))
	}
	return flow
}

func flowCategory(sheet model.PartnerSheet, unitTypeID *uuid.UUID) model.FlowCategory {
	columns := pricing.OrderColumns(sheet.Columns)
	category := model.FlowCategory{
		SheetID:      sheet.ID,
		CategoryName: sheet.CategoryName,
		Memo:         sheet.Memo,
		Columns:      columns,
		Options:      make([]model.FlowOption, 0, len(sheet.Rows)),
	}

	var matched *uuid.UUID
	if unitTypeID != nil {
		for _, col := range columns {
			if col.UnitTypeID != nil && *col.UnitTypeID == *unitTypeID {
				id := col.ID
				matched = &id
				break
			}
		}
	}

	for _, row := range sortedRows(sheet.Rows) {
		option := model.FlowOption{
			RowID:        row.ID,
			OptionName:   row.OptionName,
			PopupContent: row.PopupContent,
			PopupImage:   row.PopupImage,
			SortOrder:    row.SortOrder,
			Prices:       row.PriceMap(),
			CellValues:   row.CellMap(),
		}
		if unitTypeID != nil {
			columnID := uuid.Nil
			if matched != nil {
				columnID = *matched
			}
			price := pricing.ToMinorUnits(pricing.ResolveRowPrice(row, columnID, columns))
			option.UnitPrice = &price
			option.ColumnID = matched
		}
		category.Options = append(category.Options, option)
	}
	return category
}

func sortedRows(rows []model.SheetRow) []model.SheetRow {
	out := append([]model.SheetRow{}, rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
