package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/blachy/internal/models"
	"github.com/diewo77/blachy/session"
	"github.com/diewo77/blachy/validation"
	"github.com/diewo77/blachy/view"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogHandler manages the material and thickness lookup tables.
type CatalogHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCatalogHandler(db *gorm.DB, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{db: db, log: log}
}

func (h *CatalogHandler) Index(w http.ResponseWriter, r *http.Request) {
	var materials []models.MaterialOption
	var thicknesses []models.ThicknessOption
	if err := h.db.Order("name").Find(&materials).Error; err != nil {
		serverError(w, r, h.log, err)
		return
	}
	if err := h.db.Order("value").Find(&thicknesses).Error; err != nil {
		serverError(w, r, h.log, err)
		return
	}
	view.Render(w, r, "catalog/index.html", map[string]any{
		"Materials":   materials,
		"Thicknesses": thicknesses,
	})
}

func (h *CatalogHandler) NewMaterial(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "catalog/material.html", map[string]any{"Material": models.MaterialOption{}})
}

func (h *CatalogHandler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	m := models.MaterialOption{Name: strings.TrimSpace(r.FormValue("name"))}

	v := make(validation.Violations)
	validation.Required("name", m.Name, v)
	if !v.Empty() {
		view.RenderStatus(w, r, http.StatusUnprocessableEntity, "catalog/material.html", map[string]any{
			"Material": m,
			"Errors":   v,
		})
		return
	}

	if err := h.db.Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			session.Flash(w, r, "duplicate_material")
			redirect(w, r, "/materialy/dodaj_material")
			return
		}
		serverError(w, r, h.log, err)
		return
	}
	session.Flash(w, r, "material_added")
	redirect(w, r, "/materialy")
}

func (h *CatalogHandler) NewThickness(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "catalog/thickness.html", map[string]any{"Thickness": models.ThicknessOption{}})
}

func (h *CatalogHandler) CreateThickness(w http.ResponseWriter, r *http.Request) {
	t := models.ThicknessOption{Value: strings.TrimSpace(r.FormValue("value"))}

	v := make(validation.Violations)
	validation.Required("value", t.Value, v)
	if !v.Empty() {
		view.RenderStatus(w, r, http.StatusUnprocessableEntity, "catalog/thickness.html", map[string]any{
			"Thickness": t,
			"Errors":    v,
		})
		return
	}

	if err := h.db.Create(&t).Error; err != nil {
		if isUniqueViolation(err) {
			session.Flash(w, r, "duplicate_thickness")
			redirect(w, r, "/materialy/dodaj_thickness")
			return
		}
		serverError(w, r, h.log, err)
		return
	}
	session.Flash(w, r, "thickness_added")
	redirect(w, r, "/materialy")
}
