package services

import (
	"testing"

	"github.com/diewo77/blachy/internal/models"
)

func TestNeededQuantity(t *testing.T) {
	items := []models.ProjectItem{
		{SheetID: 1, RequiredQuantity: 4},
		{SheetID: 1, RequiredQuantity: 5},
		{SheetID: 1, RequiredQuantity: 100, Fulfilled: true},
		{SheetID: 2, RequiredQuantity: 7},
	}
	tests := []struct {
		name    string
		sheetID uint
		want    int
	}{
		{"sums open items", 1, 9},
		{"other sheet", 2, 7},
		{"no items", 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeededQuantity(tt.sheetID, items); got != tt.want {
				t.Errorf("NeededQuantity(%d) = %d, want %d", tt.sheetID, got, tt.want)
			}
		})
	}
}

func TestShortageAmount(t *testing.T) {
	tests := []struct{ onHand, needed, want int }{
		{10, 12, 2},
		{10, 10, 0},
		{10, 0, 0},
		{0, 3, 3},
	}
	for _, tt := range tests {
		if got := ShortageAmount(tt.onHand, tt.needed); got != tt.want {
			t.Errorf("ShortageAmount(%d, %d) = %d, want %d", tt.onHand, tt.needed, got, tt.want)
		}
	}
}

func TestBuildDemand(t *testing.T) {
	sheets := []models.Sheet{
		{ID: 1, Code: "A001", OnHandQuantity: 10},
		{ID: 2, Code: "B001", OnHandQuantity: 20},
		{ID: 3, Code: "C001", OnHandQuantity: 5},
	}
	items := []models.ProjectItem{
		{SheetID: 1, RequiredQuantity: 4},
		{SheetID: 1, RequiredQuantity: 8},
		{SheetID: 2, RequiredQuantity: 50, Fulfilled: true},
	}

	demand := BuildDemand(sheets, items)
	if len(demand) != 3 {
		t.Fatalf("len = %d, want 3", len(demand))
	}
	if demand[0].Needed != 12 || demand[0].Shortage != 2 || !demand[0].IsShort() {
		t.Errorf("A001 = %+v, want needed 12 shortage 2", demand[0])
	}
	if demand[1].Needed != 0 || demand[1].IsShort() {
		t.Errorf("fulfilled items must not count: %+v", demand[1])
	}
	if demand[2].Needed != 0 || demand[2].IsShort() {
		t.Errorf("sheet without items must not be short: %+v", demand[2])
	}

	short := ShortOnly(demand)
	if len(short) != 1 || short[0].Sheet.Code != "A001" {
		t.Fatalf("ShortOnly = %+v", short)
	}
}
