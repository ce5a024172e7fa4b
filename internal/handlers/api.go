package handlers

import (
	"net/http"

	"github.com/diewo77/blachy/httpx"
	"github.com/diewo77/blachy/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type APIHandler struct {
	db  *gorm.DB
	inv *services.InventoryService
	log *zap.Logger
}

func NewAPIHandler(db *gorm.DB, inv *services.InventoryService, log *zap.Logger) *APIHandler {
	return &APIHandler{db: db, inv: inv, log: log}
}

type shortageJSON struct {
	SheetID   uint   `json:"sheet_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Material  string `json:"material"`
	Thickness string `json:"thickness"`
	OnHand    int    `json:"on_hand"`
	Needed    int    `json:"needed"`
	Shortage  int    `json:"shortage"`
}

// Shortages returns the short sheets, or every sheet with ?all=1.
func (h *APIHandler) Shortages(w http.ResponseWriter, r *http.Request) {
	demand, err := h.inv.Demand(r.Context())
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	if r.URL.Query().Get("all") != "1" {
		demand = services.ShortOnly(demand)
	}
	out := make([]shortageJSON, 0, len(demand))
	for _, d := range demand {
		out = append(out, shortageJSON{
			SheetID:   d.Sheet.ID,
			Code:      d.Sheet.Code,
			Name:      d.Sheet.Name,
			Material:  d.Sheet.MaterialName(),
			Thickness: d.Sheet.ThicknessValue(),
			OnHand:    d.Sheet.OnHandQuantity,
			Needed:    d.Needed,
			Shortage:  d.Shortage,
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		httpx.JSONError(w, http.StatusServiceUnavailable, "database_unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
