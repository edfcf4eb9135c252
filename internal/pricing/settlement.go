package pricing

import (
	"github.com/google/uuid"

	"github.com/nurpe/snowops-contracts/internal/model"
)

type SettlementInput struct {
	Event     model.Event
	Partners  []model.EventPartner
	Contracts []model.LedgerContract
	// PartnerNames resolves partners that hold contracts but are no longer approved.
	PartnerNames map[uuid.UUID]string
}

// Settle aggregates an event's ordinary contracts per partner. Approved
// partners always appear, in the given order, even without contracts;
// partners only known through their contracts follow in first-seen order.
func Settle(input SettlementInput) model.Settlement {
	result := model.Settlement{
		EventID:               input.Event.ID,
		EventName:             input.Event.Name,
		DefaultCommissionRate: input.Event.CommissionRate,
		Partners:              make([]model.PartnerSettlement, 0, len(input.Partners)),
	}

	index := make(map[uuid.UUID]int, len(input.Partners))
	for _, partner := range input.Partners {
		if _, ok := index[partner.OrganizationID]; ok {
			continue
		}
		rate := input.Event.CommissionRate
		if partner.CommissionRate != nil {
			rate = *partner.CommissionRate
		}
		result.Partners = append(result.Partners, model.PartnerSettlement{
			PartnerID:      partner.OrganizationID,
			PartnerName:    partner.OrganizationName,
			CommissionRate: rate,
		})
		index[partner.OrganizationID] = len(result.Partners) - 1
	}

	for _, contract := range input.Contracts {
		pos, ok := index[contract.PartnerID]
		if !ok {
			result.Partners = append(result.Partners, model.PartnerSettlement{
				PartnerID:      contract.PartnerID,
				PartnerName:    input.PartnerNames[contract.PartnerID],
				CommissionRate: input.Event.CommissionRate,
			})
			pos = len(result.Partners) - 1
			index[contract.PartnerID] = pos
		}
		addContract(&result.Partners[pos], contract)
	}

	for i := range result.Partners {
		p := &result.Partners[i]
		p.CommissionAmount = Percent(p.SettledAmount, p.CommissionRate)
		p.PayoutAmount = p.SettledAmount - p.CommissionAmount
		addTotals(&result.Totals, *p)
	}
	return result
}

func addContract(p *model.PartnerSettlement, contract model.LedgerContract) {
	p.Counts.Total++
	switch contract.Status {
	case model.LedgerStatusPending:
		p.Counts.Pending++
	case model.LedgerStatusInProgress:
		p.Counts.InProgress++
	case model.LedgerStatusSigned:
		p.Counts.Signed++
	case model.LedgerStatusCompleted:
		p.Counts.Completed++
	case model.LedgerStatusCancelled:
		p.Counts.Cancelled++
		return
	}
	p.TotalAmount += contract.TotalAmount
	if contract.Status == model.LedgerStatusSigned || contract.Status == model.LedgerStatusCompleted {
		p.SettledAmount += contract.TotalAmount
	}
}

func addTotals(t *model.SettlementTotals, p model.PartnerSettlement) {
	t.Counts.Pending += p.Counts.Pending
	t.Counts.InProgress += p.Counts.InProgress
	t.Counts.Signed += p.Counts.Signed
	t.Counts.Completed += p.Counts.Completed
	t.Counts.Cancelled += p.Counts.Cancelled
	t.Counts.Total += p.Counts.Total
	t.TotalAmount += p.TotalAmount
	t.SettledAmount += p.SettledAmount
	t.CommissionAmount += p.CommissionAmount
	t.PayoutAmount += p.PayoutAmount
}
