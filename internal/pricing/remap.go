package pricing

import (
	"github.com/google/uuid"

	"github.com/nurpe/snowops-contracts/internal/model"
)

// RemapKeys rewrites cell map keys after a bulk column replace. The column at
// position i of oldColumns became the column at position i of newColumns. Keys
// that already name a new column are kept, anything else is dropped.
func RemapKeys[V any](oldColumns, newColumns []uuid.UUID, cells map[uuid.UUID]V) map[uuid.UUID]V {
	mapping := make(map[uuid.UUID]uuid.UUID, len(oldColumns)+len(newColumns))
	for _, id := range newColumns {
		mapping[id] = id
	}
	for i, id := range oldColumns {
		if i >= len(newColumns) {
			break
		}
		if id == uuid.Nil {
			continue
		}
		mapping[id] = newColumns[i]
	}

	out := make(map[uuid.UUID]V, len(cells))
	for key, value := range cells {
		if target, ok := mapping[key]; ok {
			out[target] = value
		}
	}
	return out
}

// ColumnIDs lists column ids in slice order.
func ColumnIDs(columns []model.SheetColumn) []uuid.UUID {
	ids := make([]uuid.UUID, len(columns))
	for i, col := range columns {
		ids[i] = col.ID
	}
	return ids
}
