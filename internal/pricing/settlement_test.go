package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/snowops-contracts/internal/model"
)

func ratePtr(v float64) *float64 {
	return &v
}

func TestSettle_AggregatesPerPartner(t *testing.T) {
	alpha := uuid.New()
	beta := uuid.New()
	event := model.Event{ID: uuid.New(), Name: "Spring fair", CommissionRate: 10}

	result := Settle(SettlementInput{
		Event: event,
		Partners: []model.EventPartner{
			{OrganizationID: alpha, OrganizationName: "Alpha"},
			{OrganizationID: beta, OrganizationName: "Beta", CommissionRate: ratePtr(5)},
		},
		Contracts: []model.LedgerContract{
			{PartnerID: alpha, Status: model.LedgerStatusPending, TotalAmount: 1000},
			{PartnerID: alpha, Status: model.LedgerStatusSigned, TotalAmount: 20000},
			{PartnerID: alpha, Status: model.LedgerStatusCompleted, TotalAmount: 5005},
			{PartnerID: alpha, Status: model.LedgerStatusCancelled, TotalAmount: 70000},
			{PartnerID: beta, Status: model.LedgerStatusInProgress, TotalAmount: 3000},
			{PartnerID: beta, Status: model.LedgerStatusSigned, TotalAmount: 10010},
		},
	})

	require.Len(t, result.Partners, 2)
	a := result.Partners[0]
	assert.Equal(t, "Alpha", a.PartnerName)
	assert.Equal(t, model.StatusCounts{Pending: 1, Signed: 1, Completed: 1, Cancelled: 1, Total: 4}, a.Counts)
	assert.Equal(t, int64(26005), a.TotalAmount)
	assert.Equal(t, int64(25005), a.SettledAmount)
	assert.Equal(t, 10.0, a.CommissionRate)
	assert.Equal(t, int64(2501), a.CommissionAmount)
	assert.Equal(t, int64(22504), a.PayoutAmount)

	b := result.Partners[1]
	assert.Equal(t, 5.0, b.CommissionRate)
	assert.Equal(t, int64(13010), b.TotalAmount)
	assert.Equal(t, int64(10010), b.SettledAmount)
	assert.Equal(t, int64(501), b.CommissionAmount)
	assert.Equal(t, int64(9509), b.PayoutAmount)

	assert.Equal(t, 6, result.Totals.Counts.Total)
	assert.Equal(t, int64(39015), result.Totals.TotalAmount)
	assert.Equal(t, int64(35015), result.Totals.SettledAmount)
	assert.Equal(t, int64(3002), result.Totals.CommissionAmount)
	assert.Equal(t, int64(32013), result.Totals.PayoutAmount)
}

func TestSettle_ApprovedPartnerWithoutContractsIsZero(t *testing.T) {
	idle := uuid.New()
	result := Settle(SettlementInput{
		Event:    model.Event{ID: uuid.New(), CommissionRate: 7},
		Partners: []model.EventPartner{{OrganizationID: idle, OrganizationName: "Idle"}},
	})

	require.Len(t, result.Partners, 1)
	assert.Equal(t, model.PartnerSettlement{PartnerID: idle, PartnerName: "Idle", CommissionRate: 7}, result.Partners[0])
	assert.Equal(t, model.SettlementTotals{}, result.Totals)
}

func TestSettle_UnlistedPartnerUsesEventRate(t *testing.T) {
	stray := uuid.New()
	result := Settle(SettlementInput{
		Event:        model.Event{ID: uuid.New(), CommissionRate: 20},
		Contracts:    []model.LedgerContract{{PartnerID: stray, Status: model.LedgerStatusSigned, TotalAmount: 500}},
		PartnerNames: map[uuid.UUID]string{stray: "Stray"},
	})

	require.Len(t, result.Partners, 1)
	assert.Equal(t, "Stray", result.Partners[0].PartnerName)
	assert.Equal(t, int64(100), result.Partners[0].CommissionAmount)
	assert.Equal(t, int64(400), result.Partners[0].PayoutAmount)
}

func TestSettle_CancelledNeverCounts(t *testing.T) {
	p := uuid.New()
	result := Settle(SettlementInput{
		Event: model.Event{ID: uuid.New(), CommissionRate: 10},
		Contracts: []model.LedgerContract{
			{PartnerID: p, Status: model.LedgerStatusCancelled, TotalAmount: 999},
			{PartnerID: p, Status: model.LedgerStatusCancelled, TotalAmount: 1},
		},
	})

	assert.Zero(t, result.Partners[0].TotalAmount)
	assert.Zero(t, result.Partners[0].SettledAmount)
	assert.Equal(t, 2, result.Partners[0].Counts.Cancelled)
}

func TestSettle_CommissionPlusPayoutIsSettled(t *testing.T) {
	p := uuid.New()
	amounts := []int64{0, 1, 9, 333, 12345, 999999}
	for rate := 0; rate <= 100; rate++ {
		for _, amount := range amounts {
			result := Settle(SettlementInput{
				Event:     model.Event{ID: uuid.New(), CommissionRate: float64(rate)},
				Contracts: []model.LedgerContract{{PartnerID: p, Status: model.LedgerStatusCompleted, TotalAmount: amount}},
			})
			ps := result.Partners[0]
			assert.Equal(t, ps.SettledAmount, ps.CommissionAmount+ps.PayoutAmount, "rate=%d amount=%d", rate, amount)
		}
	}
}
