package services

import (
	"strconv"
	"strings"

	"github.com/diewo77/blachy/validation"
)

// OfferLine is one proposed (sheet, quantity) pair.
type OfferLine struct {
	SheetID   uint   `json:"sheet_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Material  string `json:"material"`
	Thickness string `json:"thickness"`
	Shortage  int    `json:"shortage"`
	Override  bool   `json:"override"`
	Default   int    `json:"default"`
	Quantity  int    `json:"quantity"`
}

// QuantityField is the form field carrying an explicit quantity for a sheet.
func QuantityField(sheetID uint) string {
	return "qty_" + strconv.FormatUint(uint64(sheetID), 10)
}

// SelectOffer returns the candidate lines: every short sheet plus every
// overridden one, in inventory order. Short sheets default to their
// shortage, overridden sheets that are not short to defaultQty.
func SelectOffer(demand []SheetDemand, overrides map[uint]bool, defaultQty int) []OfferLine {
	var lines []OfferLine
	for _, d := range demand {
		override := overrides[d.Sheet.ID]
		if !d.IsShort() && !override {
			continue
		}
		qty := defaultQty
		if d.IsShort() {
			qty = d.Shortage
		}
		lines = append(lines, OfferLine{
			SheetID:   d.Sheet.ID,
			Code:      d.Sheet.Code,
			Name:      d.Sheet.Name,
			Material:  d.Sheet.MaterialName(),
			Thickness: d.Sheet.ThicknessValue(),
			Shortage:  d.Shortage,
			Override:  override,
			Default:   qty,
			Quantity:  qty,
		})
	}
	return lines
}

// ApplyQuantities overlays explicit quantities keyed by sheet id.
// Missing or empty values keep the line default; values that are not whole
// numbers are reported as violations under QuantityField. Lines whose
// resulting quantity is not positive are dropped.
func ApplyQuantities(lines []OfferLine, explicit map[uint]string) ([]OfferLine, validation.Violations) {
	v := make(validation.Violations)
	out := make([]OfferLine, 0, len(lines))
	for _, l := range lines {
		l.Quantity = l.Default
		if raw, ok := explicit[l.SheetID]; ok && strings.TrimSpace(raw) != "" {
			if n, ok := validation.Int(QuantityField(l.SheetID), raw, v); ok {
				l.Quantity = n
			}
		}
		if l.Quantity > 0 {
			out = append(out, l)
		}
	}
	return out, v
}

// WithQuantities returns lines with the quantities already chosen for a
// draft, keyed by sheet id. Lines not present in chosen keep their value.
func WithQuantities(lines []OfferLine, chosen map[uint]int) []OfferLine {
	out := make([]OfferLine, len(lines))
	for i, l := range lines {
		if q, ok := chosen[l.SheetID]; ok {
			l.Quantity = q
		}
		out[i] = l
	}
	return out
}
