package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/nurpe/snowops-contracts/internal/model"
)

// LumpSumStageName names the single stage used when a configuration has no stages.
const LumpSumStageName = "lump sum"

var hundred = decimal.NewFromInt(100)

// PaymentSchedule splits total across stages by percentage. Every stage is
// rounded half-up on its own and the last stage absorbs whatever difference
// remains, so the amounts always add up to total.
func PaymentSchedule(total int64, stages []model.PaymentStage) []model.ScheduleEntry {
	if len(stages) == 0 {
		return []model.ScheduleEntry{{Name: LumpSumStageName, Ratio: 100, Amount: total}}
	}

	entries := make([]model.ScheduleEntry, len(stages))
	var sum int64
	for i, stage := range stages {
		amount := Percent(total, stage.Ratio)
		entries[i] = model.ScheduleEntry{Name: stage.Name, Ratio: stage.Ratio, Amount: amount}
		sum += amount
	}
	entries[len(entries)-1].Amount += total - sum
	return entries
}

// Percent returns round(amount * ratio / 100), half away from zero.
func Percent(amount int64, ratio float64) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromFloat(ratio)).
		Div(hundred).
		Round(0).
		IntPart()
}
