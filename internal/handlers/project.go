package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/diewo77/blachy/internal/models"
	"github.com/diewo77/blachy/internal/services"
	"github.com/diewo77/blachy/session"
	"github.com/diewo77/blachy/validation"
	"github.com/diewo77/blachy/view"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProjectHandler manages projects and their demand line items.
type ProjectHandler struct {
	db  *gorm.DB
	inv *services.InventoryService
	log *zap.Logger
}

func NewProjectHandler(db *gorm.DB, inv *services.InventoryService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{db: db, inv: inv, log: log}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	var projects []models.Project
	if err := h.db.Preload("Items").Order("created_at DESC, id DESC").Find(&projects).Error; err != nil {
		serverError(w, r, h.log, err)
		return
	}
	view.Render(w, r, "projects/index.html", map[string]any{"Projects": projects})
}

func (h *ProjectHandler) New(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "projects/new.html", map[string]any{"Project": models.Project{}})
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := models.Project{Name: strings.TrimSpace(r.FormValue("name"))}
	v := make(validation.Violations)
	validation.Required("name", p.Name, v)
	if !v.Empty() {
		view.RenderStatus(w, r, http.StatusUnprocessableEntity, "projects/new.html", map[string]any{
			"Project": p,
			"Errors":  v,
		})
		return
	}
	if err := h.db.Create(&p).Error; err != nil {
		serverError(w, r, h.log, err)
		return
	}
	session.Flash(w, r, "project_added")
	redirect(w, r, fmt.Sprintf("/projekty/%d", p.ID))
}

func (h *ProjectHandler) renderDetail(w http.ResponseWriter, r *http.Request, status int, id uint, form map[string]string, v validation.Violations) {
	var p models.Project
	err := h.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Sheet").
		First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	sheets, err := h.inv.Sheets(r.Context())
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	view.RenderStatus(w, r, status, "projects/detail.html", map[string]any{
		"Project": p,
		"Sheets":  sheets,
		"Form":    form,
		"Errors":  v,
	})
}

func (h *ProjectHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.renderDetail(w, r, http.StatusOK, id, nil, nil)
}

// AddItem appends a demand line to the project.
func (h *ProjectHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var count int64
	if err := h.db.Model(&models.Project{}).Where("id = ?", id).Count(&count).Error; err != nil {
		serverError(w, r, h.log, err)
		return
	}
	if count == 0 {
		http.NotFound(w, r)
		return
	}

	form := map[string]string{
		"sheet_id":          r.FormValue("sheet_id"),
		"required_quantity": r.FormValue("required_quantity"),
	}
	v := make(validation.Violations)
	sheetID := validation.OptionalID("sheet_id", form["sheet_id"], v)
	if sheetID == nil && !v.Has("sheet_id") {
		v["sheet_id"] = "required"
	}
	qty, qtyOK := validation.Int("required_quantity", form["required_quantity"], v)
	if qtyOK {
		validation.Positive("required_quantity", qty, v)
	}
	if sheetID != nil {
		if _, err := h.inv.Sheet(r.Context(), *sheetID); errors.Is(err, services.ErrSheetNotFound) {
			v["sheet_id"] = "invalid_choice"
		} else if err != nil {
			serverError(w, r, h.log, err)
			return
		}
	}
	if !v.Empty() {
		h.renderDetail(w, r, http.StatusUnprocessableEntity, id, form, v)
		return
	}

	item := models.ProjectItem{ProjectID: id, SheetID: *sheetID, RequiredQuantity: qty}
	if err := h.db.Create(&item).Error; err != nil {
		serverError(w, r, h.log, err)
		return
	}
	session.Flash(w, r, "item_added")
	redirect(w, r, fmt.Sprintf("/projekty/%d", id))
}

func (h *ProjectHandler) loadItem(w http.ResponseWriter, r *http.Request) (*models.ProjectItem, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil, false
	}
	var item models.ProjectItem
	err := h.db.Preload("Sheet").Preload("Project").First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		serverError(w, r, h.log, err)
		return nil, false
	}
	return &item, true
}

func (h *ProjectHandler) EditItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadItem(w, r)
	if !ok {
		return
	}
	view.Render(w, r, "projects/item.html", map[string]any{"Item": item})
}

func (h *ProjectHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadItem(w, r)
	if !ok {
		return
	}
	v := make(validation.Violations)
	if qty, ok := validation.Int("required_quantity", r.FormValue("required_quantity"), v); ok {
		validation.Positive("required_quantity", qty, v)
		item.RequiredQuantity = qty
	}
	item.Fulfilled = r.FormValue("fulfilled") == "on"
	if !v.Empty() {
		view.RenderStatus(w, r, http.StatusUnprocessableEntity, "projects/item.html", map[string]any{
			"Item":   item,
			"Errors": v,
		})
		return
	}
	err := h.db.Model(&models.ProjectItem{}).Where("id = ?", item.ID).Updates(map[string]any{
		"required_quantity": item.RequiredQuantity,
		"fulfilled":         item.Fulfilled,
	}).Error
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	session.Flash(w, r, "item_updated")
	redirect(w, r, fmt.Sprintf("/projekty/%d", item.ProjectID))
}

func (h *ProjectHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadItem(w, r)
	if !ok {
		return
	}
	if err := h.db.Delete(&models.ProjectItem{}, item.ID).Error; err != nil {
		serverError(w, r, h.log, err)
		return
	}
	session.Flash(w, r, "item_deleted")
	redirect(w, r, fmt.Sprintf("/projekty/%d", item.ProjectID))
}

// Archive marks every item of the project fulfilled; the project then no
// longer contributes to demand.
func (h *ProjectHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if _, err := h.inv.ArchiveProject(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			http.NotFound(w, r)
			return
		}
		serverError(w, r, h.log, err)
		return
	}
	session.Flash(w, r, "project_archived")
	redirect(w, r, "/projekty")
}
