package services

import (
	"testing"

	"github.com/diewo77/blachy/internal/models"
)

func offerDemand() []SheetDemand {
	stal := &models.MaterialOption{Name: "Stal"}
	return []SheetDemand{
		{Sheet: models.Sheet{ID: 1, Code: "A001", Material: stal}, Needed: 12, Shortage: 2},
		{Sheet: models.Sheet{ID: 2, Code: "B001"}, Needed: 0},
		{Sheet: models.Sheet{ID: 3, Code: "C001"}, Needed: 9, Shortage: 4},
	}
}

func TestSelectOffer(t *testing.T) {
	lines := SelectOffer(offerDemand(), map[uint]bool{2: true}, 1)
	if len(lines) != 3 {
		t.Fatalf("len = %d, want 3: %+v", len(lines), lines)
	}
	want := []struct {
		id       uint
		qty      int
		override bool
	}{{1, 2, false}, {2, 1, true}, {3, 4, false}}
	for i, w := range want {
		l := lines[i]
		if l.SheetID != w.id || l.Quantity != w.qty || l.Override != w.override {
			t.Errorf("line %d = %+v, want id=%d qty=%d override=%v", i, l, w.id, w.qty, w.override)
		}
	}
	if lines[0].Material != "Stal" || lines[0].Thickness != "-" {
		t.Errorf("catalog fields = %q/%q", lines[0].Material, lines[0].Thickness)
	}
}

func TestSelectOfferWithoutShortagesOrOverrides(t *testing.T) {
	demand := []SheetDemand{{Sheet: models.Sheet{ID: 1}}}
	if lines := SelectOffer(demand, nil, 1); len(lines) != 0 {
		t.Fatalf("expected empty offer, got %+v", lines)
	}
}

func TestApplyQuantities(t *testing.T) {
	base := SelectOffer(offerDemand(), map[uint]bool{2: true}, 1)

	tests := []struct {
		name     string
		explicit map[uint]string
		wantQty  map[uint]int
		wantErr  string
	}{
		{
			name:     "defaults",
			explicit: nil,
			wantQty:  map[uint]int{1: 2, 2: 1, 3: 4},
		},
		{
			name:     "explicit wins over shortage",
			explicit: map[uint]string{1: "10"},
			wantQty:  map[uint]int{1: 10, 2: 1, 3: 4},
		},
		{
			name:     "empty falls back to default",
			explicit: map[uint]string{3: "  "},
			wantQty:  map[uint]int{1: 2, 2: 1, 3: 4},
		},
		{
			name:     "zero and negative are dropped",
			explicit: map[uint]string{1: "0", 2: "-3"},
			wantQty:  map[uint]int{3: 4},
		},
		{
			name:     "non numeric is rejected",
			explicit: map[uint]string{2: "dużo"},
			wantQty:  map[uint]int{1: 2, 2: 1, 3: 4},
			wantErr:  "qty_2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, v := ApplyQuantities(base, tt.explicit)
			if tt.wantErr == "" && !v.Empty() {
				t.Fatalf("unexpected violations %v", v)
			}
			if tt.wantErr != "" && !v.Has(tt.wantErr) {
				t.Fatalf("expected violation on %s, got %v", tt.wantErr, v)
			}
			got := make(map[uint]int)
			for _, l := range lines {
				got[l.SheetID] = l.Quantity
			}
			if len(got) != len(tt.wantQty) {
				t.Fatalf("lines = %v, want %v", got, tt.wantQty)
			}
			for id, q := range tt.wantQty {
				if got[id] != q {
					t.Errorf("sheet %d qty = %d, want %d", id, got[id], q)
				}
			}
		})
	}
}

func TestWithQuantities(t *testing.T) {
	base := SelectOffer(offerDemand(), nil, 1)
	lines := WithQuantities(base, map[uint]int{3: 11})
	if lines[1].Quantity != 11 || lines[0].Quantity != 2 {
		t.Fatalf("WithQuantities = %+v", lines)
	}
	if base[1].Quantity != 4 {
		t.Fatal("input slice was modified")
	}
}
