package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/snowops-contracts/internal/model"
	"github.com/nurpe/snowops-contracts/internal/pricing"
)

type SettlementExporter interface {
	Generate(settlement model.Settlement) ([]byte, error)
}

// SettlementService derives payouts from the live contract ledger. Nothing is
// persisted, so every call reflects current contract statuses.
type SettlementService struct {
	ledger   LedgerReader
	exporter SettlementExporter
	access   access
}

func NewSettlementService(ledger LedgerReader, directory Directory, exporter SettlementExporter) *SettlementService {
	return &SettlementService{
		ledger:   ledger,
		exporter: exporter,
		access:   access{directory: directory},
	}
}

type SettlementExport struct {
	FileName string
	Content  []byte
}

func (s *SettlementService) Get(ctx context.Context, principal model.Principal, eventID uuid.UUID) (*model.Settlement, error) {
	event, err := s.access.directory.GetEvent(ctx, eventID)
	if err != nil {
		return nil, notFound(err, "event")
	}
	if err := s.access.requireOrganizer(ctx, principal, event.OrganizationID); err != nil {
		return nil, err
	}

	partners, err := s.access.directory.ListEventPartners(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	contracts, err := s.ledger.ListEventContracts(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	names, err := s.unlistedPartnerNames(ctx, partners, contracts)
	if err != nil {
		return nil, err
	}

	settlement := pricing.Settle(pricing.SettlementInput{
		Event:        *event,
		Partners:     partners,
		Contracts:    contracts,
		PartnerNames: names,
	})
	return &settlement, nil
}

func (s *SettlementService) Export(ctx context.Context, principal model.Principal, eventID uuid.UUID) (*SettlementExport, error) {
	settlement, err := s.Get(ctx, principal, eventID)
	if err != nil {
		return nil, err
	}
	content, err := s.exporter.Generate(*settlement)
	if err != nil {
		return nil, fmt.Errorf("render settlement: %w", err)
	}
	return &SettlementExport{
		FileName: fmt.Sprintf("settlement_%s_%s.xlsx", settlement.EventID, time.Now().UTC().Format("20060102")),
		Content:  content,
	}, nil
}

// unlistedPartnerNames resolves names of partners holding contracts who are no
// longer on the approved list.
func (s *SettlementService) unlistedPartnerNames(ctx context.Context, partners []model.EventPartner, contracts []model.LedgerContract) (map[uuid.UUID]string, error) {
	listed := make(map[uuid.UUID]struct{}, len(partners))
	for _, partner := range partners {
		listed[partner.OrganizationID] = struct{}{}
	}
	var missing []uuid.UUID
	for _, contract := range contracts {
		if _, ok := listed[contract.PartnerID]; !ok {
			missing = append(missing, contract.PartnerID)
		}
	}
	names := make(map[uuid.UUID]string)
	if len(missing) == 0 {
		return names, nil
	}

	orgs, err := s.access.directory.GetOrganizations(ctx, uniqueIDs(missing))
	if err != nil {
		return nil, err
	}
	for id, org := range orgs {
		names[id] = org.Name
	}
	return names, nil
}
