package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/blachy/internal/models"
	"github.com/diewo77/blachy/internal/pending"
	"github.com/diewo77/blachy/internal/services"
	"github.com/diewo77/blachy/internal/storage"
	"github.com/diewo77/blachy/session"
	"github.com/diewo77/blachy/validation"
	"github.com/diewo77/blachy/view"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SheetHandler struct {
	db      *gorm.DB
	inv     *services.InventoryService
	store   storage.Storage
	pending pending.Store
	log     *zap.Logger
}

func NewSheetHandler(db *gorm.DB, inv *services.InventoryService, store storage.Storage, ps pending.Store, log *zap.Logger) *SheetHandler {
	return &SheetHandler{db: db, inv: inv, store: store, pending: ps, log: log}
}

// Index lists every sheet with its current demand.
func (h *SheetHandler) Index(w http.ResponseWriter, r *http.Request) {
	demand, err := h.inv.Demand(r.Context())
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	sid, _ := session.IDFromContext(r.Context())
	sel, err := h.pending.Get(r.Context(), sid)
	if err != nil {
		h.log.Warn("pending selection unavailable", zap.Error(err))
	}
	view.Render(w, r, "sheets/index.html", map[string]any{
		"Demand":    demand,
		"Overrides": sel.OverrideSet(),
	})
}

func (h *SheetHandler) catalog() ([]models.MaterialOption, []models.ThicknessOption, error) {
	var materials []models.MaterialOption
	var thicknesses []models.ThicknessOption
	if err := h.db.Order("name").Find(&materials).Error; err != nil {
		return nil, nil, err
	}
	if err := h.db.Order("value").Find(&thicknesses).Error; err != nil {
		return nil, nil, err
	}
	return materials, thicknesses, nil
}

func (h *SheetHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, sheet models.Sheet, v validation.Violations) {
	materials, thicknesses, err := h.catalog()
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	view.RenderStatus(w, r, status, "sheets/form.html", map[string]any{
		"Sheet":       sheet,
		"Materials":   materials,
		"Thicknesses": thicknesses,
		"Errors":      v,
	})
}

// bindSheet copies the form into s and validates it.
func bindSheet(r *http.Request, s *models.Sheet) validation.Violations {
	v := make(validation.Violations)
	s.Name = strings.TrimSpace(r.FormValue("name"))
	s.ShortName = strings.TrimSpace(r.FormValue("short_name"))
	s.Code = strings.ToUpper(strings.TrimSpace(r.FormValue("code")))
	s.ProcessingType = strings.TrimSpace(r.FormValue("processing_type"))
	s.MaterialID = validation.OptionalID("material_id", r.FormValue("material_id"), v)
	s.ThicknessID = validation.OptionalID("thickness_id", r.FormValue("thickness_id"), v)

	validation.Required("name", s.Name, v)
	validation.Required("code", s.Code, v)
	if n, ok := validation.Int("on_hand_quantity", r.FormValue("on_hand_quantity"), v); ok {
		validation.NonNegative("on_hand_quantity", n, v)
		s.OnHandQuantity = n
	}
	return v
}

// checkCatalog flags material and thickness ids that do not exist.
func (h *SheetHandler) checkCatalog(ctx context.Context, s *models.Sheet, v validation.Violations) error {
	refs := []struct {
		field string
		id    *uint
		model any
	}{
		{"material_id", s.MaterialID, &models.MaterialOption{}},
		{"thickness_id", s.ThicknessID, &models.ThicknessOption{}},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		var n int64
		if err := h.db.WithContext(ctx).Model(ref.model).Where("id = ?", *ref.id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			v[ref.field] = "invalid_choice"
		}
	}
	return nil
}

// bindAndCheck binds the form into s and validates it, catalog references included.
func (h *SheetHandler) bindAndCheck(r *http.Request, s *models.Sheet) (validation.Violations, error) {
	v := bindSheet(r, s)
	if err := h.checkCatalog(r.Context(), s, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (h *SheetHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, models.Sheet{}, nil)
}

func (h *SheetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var sheet models.Sheet
	v, err := h.bindAndCheck(r, &sheet)
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, sheet, v)
		return
	}
	if err := h.db.Create(&sheet).Error; err != nil {
		if isUniqueViolation(err) {
			h.renderForm(w, r, http.StatusUnprocessableEntity, sheet, validation.Violations{"code": "code_already_exists"})
			return
		}
		serverError(w, r, h.log, err)
		return
	}
	h.log.Info("sheet created", zap.Uint("sheet_id", sheet.ID), zap.String("code", sheet.Code))
	session.Flash(w, r, "sheet_added")
	redirect(w, r, "/")
}

func (h *SheetHandler) load(w http.ResponseWriter, r *http.Request) (*models.Sheet, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil, false
	}
	sheet, err := h.inv.Sheet(r.Context(), id)
	if errors.Is(err, services.ErrSheetNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		serverError(w, r, h.log, err)
		return nil, false
	}
	return sheet, true
}

func (h *SheetHandler) Edit(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.load(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, http.StatusOK, *sheet, nil)
}

func (h *SheetHandler) Update(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.load(w, r)
	if !ok {
		return
	}
	sheet.Material, sheet.Thickness = nil, nil
	v, err := h.bindAndCheck(r, sheet)
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, *sheet, v)
		return
	}
	err = h.db.Model(sheet).Select(
		"display_name", "short_name", "code", "on_hand_quantity",
		"material_id", "thickness_id", "processing_type",
	).Updates(sheet).Error
	if err != nil {
		if isUniqueViolation(err) {
			h.renderForm(w, r, http.StatusUnprocessableEntity, *sheet, validation.Violations{"code": "code_already_exists"})
			return
		}
		serverError(w, r, h.log, err)
		return
	}
	session.Flash(w, r, "sheet_updated")
	redirect(w, r, "/")
}

// Delete removes the sheet, everything that references it and its files.
func (h *SheetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.inv.DeleteSheet(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrSheetNotFound) {
			http.NotFound(w, r)
			return
		}
		serverError(w, r, h.log, err)
		return
	}
	if err := storage.DeleteSheet(r.Context(), h.store, id); err != nil {
		h.log.Warn("attachments not removed", zap.Uint("sheet_id", id), zap.Error(err))
	}
	session.Flash(w, r, "sheet_deleted")
	redirect(w, r, "/")
}
