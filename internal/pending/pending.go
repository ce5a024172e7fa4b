// Package pending holds the per-session draft of an offer or order
// between requests. Nothing here touches the database.
package pending

import (
	"context"
	"time"
)

// Line is one drafted (sheet, quantity) pair.
type Line struct {
	SheetID  uint `json:"sheet_id"`
	Quantity int  `json:"quantity"`
}

// Selection is the pending state of one session: sheets forced into the
// offer and the quantities of the last generated draft.
type Selection struct {
	Overrides []uint    `json:"overrides,omitempty"`
	Draft     []Line    `json:"draft,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OverrideSet returns the overrides as a lookup set.
func (s Selection) OverrideSet() map[uint]bool {
	set := make(map[uint]bool, len(s.Overrides))
	for _, id := range s.Overrides {
		set[id] = true
	}
	return set
}

// DraftQuantities returns the drafted quantity per sheet.
func (s Selection) DraftQuantities() map[uint]int {
	m := make(map[uint]int, len(s.Draft))
	for _, l := range s.Draft {
		m[l.SheetID] = l.Quantity
	}
	return m
}

// Empty reports whether nothing is pending.
func (s Selection) Empty() bool { return len(s.Overrides) == 0 && len(s.Draft) == 0 }

// Store keeps selections keyed by session id. A missing or expired
// selection is returned as the zero Selection.
type Store interface {
	Get(ctx context.Context, sessionID string) (Selection, error)
	Put(ctx context.Context, sessionID string, sel Selection) error
	Clear(ctx context.Context, sessionID string) error
}
