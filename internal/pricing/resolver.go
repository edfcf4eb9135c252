// Package pricing holds the side-effect free money computations: unit price
// resolution over a sheet matrix, installment schedules, column key remapping
// and settlement aggregation.
package pricing

import (
	"bytes"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/snowops-contracts/internal/model"
)

// ResolveRowPrice resolves the unit price of row for columnID. columns is the
// full column list of the row's sheet.
func ResolveRowPrice(row model.SheetRow, columnID uuid.UUID, columns []model.SheetColumn) float64 {
	return ResolvePrice(row.PriceMap(), row.CellMap(), columnID, columns)
}

// ResolvePrice returns the unit price stored under columnID.
//
// Text columns never carry a price. For amount columns the cell value wins over
// the numeric price. When that lookup yields exactly zero the first strictly
// positive amount found scanning the sheet's amount columns in order is used
// instead, checking prices before cell values for each column. A column id the
// sheet does not know is looked up like an empty amount column, so a unit type
// the partner never priced still gets the fallback price.
func ResolvePrice(prices model.PriceMap, cells model.CellMap, columnID uuid.UUID, columns []model.SheetColumn) float64 {
	ordered := OrderColumns(columns)

	for _, col := range ordered {
		if col.ID == columnID && col.ColumnType != model.ColumnTypeAmount {
			return 0
		}
	}

	price := directPrice(prices, cells, columnID)
	if price == 0 {
		price = fallbackPrice(prices, cells, ordered)
	}
	if price < 0 {
		return 0
	}
	return price
}

func directPrice(prices model.PriceMap, cells model.CellMap, columnID uuid.UUID) float64 {
	if raw, ok := cells[columnID]; ok {
		if value, ok := ParseAmount(raw); ok {
			return value
		}
	}
	return prices[columnID]
}

func fallbackPrice(prices model.PriceMap, cells model.CellMap, ordered []model.SheetColumn) float64 {
	for _, col := range ordered {
		if col.ColumnType != model.ColumnTypeAmount {
			continue
		}
		if value := prices[col.ID]; value > 0 {
			return value
		}
		if value, ok := ParseAmount(cells[col.ID]); ok && value > 0 {
			return value
		}
	}
	return 0
}

// ParseAmount parses cell content as a number. Surrounding blanks and
// thousands separators are ignored; empty content is not a number.
func ParseAmount(raw string) (float64, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// ToMinorUnits rounds a resolved price to whole currency units, half away from zero.
func ToMinorUnits(value float64) int64 {
	return decimal.NewFromFloat(value).Round(0).IntPart()
}

// OrderColumns returns a copy of columns in display order. Columns sharing a
// sort order are ordered by id so every read sees the same sequence.
func OrderColumns(columns []model.SheetColumn) []model.SheetColumn {
	ordered := make([]model.SheetColumn, len(columns))
	copy(ordered, columns)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].SortOrder != ordered[j].SortOrder {
			return ordered[i].SortOrder < ordered[j].SortOrder
		}
		return bytes.Compare(ordered[i].ID[:], ordered[j].ID[:]) < 0
	})
	return ordered
}
