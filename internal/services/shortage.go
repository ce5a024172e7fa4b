package services

import "github.com/diewo77/blachy/internal/models"

// SheetDemand is the derived stock position of one sheet at read time.
type SheetDemand struct {
	Sheet    models.Sheet `json:"sheet"`
	Needed   int          `json:"needed"`
	Shortage int          `json:"shortage"`
}

// IsShort reports on_hand < needed.
func (d SheetDemand) IsShort() bool { return d.Shortage > 0 }

// NeededQuantity sums the required quantity of every unfulfilled item
// that references sheetID.
func NeededQuantity(sheetID uint, items []models.ProjectItem) int {
	needed := 0
	for _, it := range items {
		if it.SheetID == sheetID && !it.Fulfilled {
			needed += it.RequiredQuantity
		}
	}
	return needed
}

// ShortageAmount returns max(0, needed-onHand).
func ShortageAmount(onHand, needed int) int {
	if needed > onHand {
		return needed - onHand
	}
	return 0
}

// BuildDemand computes the demand of every sheet in one pass over items.
// The result keeps the order of sheets.
func BuildDemand(sheets []models.Sheet, items []models.ProjectItem) []SheetDemand {
	needed := make(map[uint]int, len(sheets))
	for _, it := range items {
		if !it.Fulfilled {
			needed[it.SheetID] += it.RequiredQuantity
		}
	}
	out := make([]SheetDemand, 0, len(sheets))
	for _, s := range sheets {
		n := needed[s.ID]
		out = append(out, SheetDemand{
			Sheet:    s,
			Needed:   n,
			Shortage: ShortageAmount(s.OnHandQuantity, n),
		})
	}
	return out
}

// ShortOnly filters demand down to sheets that are short.
func ShortOnly(demand []SheetDemand) []SheetDemand {
	var out []SheetDemand
	for _, d := range demand {
		if d.IsShort() {
			out = append(out, d)
		}
	}
	return out
}
