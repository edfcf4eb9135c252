package excel

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/snowops-contracts/internal/model"
)

const (
	summarySheet  = "Settlement"
	maxSheetName  = 31
	fallbackSheet = "Partner"
)

var summaryHeaders = []string{
	"Partner",
	"Pending",
	"In progress",
	"Signed",
	"Completed",
	"Cancelled",
	"Contracts",
	"Total amount",
	"Settled amount",
	"Commission rate, %",
	"Commission",
	"Payout",
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a settlement as a workbook: a summary sheet with one line
// per partner plus the grand total, and one statement sheet per partner.
func (g *Generator) Generate(settlement model.Settlement) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if err := g.writeSummary(file, summarySheet, settlement); err != nil {
		return nil, err
	}

	usedNames := map[string]struct{}{summarySheet: {}}
	for _, partner := range settlement.Partners {
		sheetName := buildSheetName(partner.PartnerName, partner.PartnerID, usedNames)
		usedNames[sheetName] = struct{}{}

		if _, err := file.NewSheet(sheetName); err != nil {
			return nil, err
		}
		if err := g.writeStatement(file, sheetName, settlement, partner); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, settlement model.Settlement) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Event")
	set("B1", settlement.EventName)
	set("A2", "Default commission, %")
	set("B2", settlement.DefaultCommissionRate)
	set("A3", "Partners")
	set("B3", len(settlement.Partners))

	tableRow := 5
	for i, header := range summaryHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, tableRow)
		if err != nil {
			return err
		}
		set(cell, header)
	}

	for i, partner := range settlement.Partners {
		row := tableRow + 1 + i
		values := []interface{}{
			displayName(partner.PartnerName, partner.PartnerID),
			partner.Counts.Pending,
			partner.Counts.InProgress,
			partner.Counts.Signed,
			partner.Counts.Completed,
			partner.Counts.Cancelled,
			partner.Counts.Total,
			partner.TotalAmount,
			partner.SettledAmount,
			partner.CommissionRate,
			partner.CommissionAmount,
			partner.PayoutAmount,
		}
		if err := file.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
	}

	totals := settlement.Totals
	totalRow := tableRow + 1 + len(settlement.Partners)
	values := []interface{}{
		"Total",
		totals.Counts.Pending,
		totals.Counts.InProgress,
		totals.Counts.Signed,
		totals.Counts.Completed,
		totals.Counts.Cancelled,
		totals.Counts.Total,
		totals.TotalAmount,
		totals.SettledAmount,
		"",
		totals.CommissionAmount,
		totals.PayoutAmount,
	}
	if err := file.SetSheetRow(sheet, fmt.Sprintf("A%d", totalRow), &values); err != nil {
		return err
	}

	_ = file.SetColWidth(sheet, "A", "A", 40)
	_ = file.SetColWidth(sheet, "B", "G", 12)
	_ = file.SetColWidth(sheet, "H", "L", 18)
	return nil
}

func (g *Generator) writeStatement(file *excelize.File, sheet string, settlement model.Settlement, partner model.PartnerSettlement) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Event")
	set("B1", settlement.EventName)
	set("A2", "Partner")
	set("B2", displayName(partner.PartnerName, partner.PartnerID))

	lines := []struct {
		label string
		value interface{}
	}{
		{"Pending contracts", partner.Counts.Pending},
		{"In progress contracts", partner.Counts.InProgress},
		{"Signed contracts", partner.Counts.Signed},
		{"Completed contracts", partner.Counts.Completed},
		{"Cancelled contracts", partner.Counts.Cancelled},
		{"Contracts total", partner.Counts.Total},
		{"Total amount", partner.TotalAmount},
		{"Settled amount", partner.SettledAmount},
		{"Commission rate, %", partner.CommissionRate},
		{"Commission", partner.CommissionAmount},
		{"Payout", partner.PayoutAmount},
	}
	for i, line := range lines {
		row := 4 + i
		set(fmt.Sprintf("A%d", row), line.label)
		set(fmt.Sprintf("B%d", row), line.value)
	}

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 40)
	return nil
}

func displayName(name string, id uuid.UUID) string {
	if strings.TrimSpace(name) == "" {
		return id.String()
	}
	return name
}

// buildSheetName derives a unique sheet name within excel's 31 character limit.
func buildSheetName(name string, id uuid.UUID, used map[string]struct{}) string {
	base := sanitizeSheetName(displayName(name, id))
	base = truncate(base, maxSheetName)

	candidate := base
	counter := 2
	for {
		if _, exists := used[candidate]; !exists {
			return candidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		candidate = truncate(base, maxSheetName-len([]rune(suffix))) + suffix
		counter++
	}
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallbackSheet
	}

	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = strings.TrimSpace(replacer.Replace(value))
	if value == "" {
		return fallbackSheet
	}
	return value
}
