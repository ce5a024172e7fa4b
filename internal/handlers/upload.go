package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/diewo77/blachy/internal/models"
	"github.com/diewo77/blachy/internal/storage"
	"github.com/diewo77/blachy/session"
	"github.com/diewo77/blachy/validation"
	"github.com/diewo77/blachy/view"
	"go.uber.org/zap"
)

const maxUploadSize = 32 << 20

func (h *SheetHandler) UploadForm(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.load(w, r)
	if !ok {
		return
	}
	view.Render(w, r, "sheets/upload.html", map[string]any{"Sheet": sheet})
}

// Upload stores any of the pdf, dxf and image fields under the sheet's
// per-kind keys. The extension has to match the field.
func (h *SheetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.load(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	type upload struct {
		kind models.AttachmentKind
		name string
	}
	var uploads []upload
	v := make(validation.Violations)
	for _, kind := range models.AttachmentKinds {
		_, hdr, err := r.FormFile(string(kind))
		if err != nil {
			continue
		}
		if !kind.Accepts(hdr.Filename) {
			v[string(kind)] = "invalid_extension"
			continue
		}
		uploads = append(uploads, upload{kind: kind, name: hdr.Filename})
	}
	if !v.Empty() {
		view.RenderStatus(w, r, http.StatusUnprocessableEntity, "sheets/upload.html", map[string]any{
			"Sheet":  sheet,
			"Errors": v,
		})
		return
	}
	if len(uploads) == 0 {
		session.Flash(w, r, "no_files")
		redirect(w, r, fmt.Sprintf("/upload/%d", sheet.ID))
		return
	}

	columns := make([]string, 0, len(uploads))
	for _, u := range uploads {
		f, hdr, err := r.FormFile(string(u.kind))
		if err != nil {
			serverError(w, r, h.log, err)
			return
		}
		contentType := hdr.Header.Get("Content-Type")
		err = h.store.Put(r.Context(), storage.Key(sheet.ID, u.kind), f, hdr.Size, contentType)
		f.Close()
		if err != nil {
			serverError(w, r, h.log, err)
			return
		}
		sheet.SetAttachment(u.kind, storage.SafeName(u.name))
		columns = append(columns, models.AttachmentColumn(u.kind))
	}
	sheet.Material, sheet.Thickness = nil, nil
	if err := h.db.Model(sheet).Select(columns).Updates(sheet).Error; err != nil {
		serverError(w, r, h.log, err)
		return
	}
	h.log.Info("attachments uploaded", zap.Uint("sheet_id", sheet.ID), zap.Int("files", len(uploads)))
	session.Flash(w, r, "files_uploaded")
	redirect(w, r, "/")
}

// File streams one attachment of a sheet under its original name.
func (h *SheetHandler) File(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.load(w, r)
	if !ok {
		return
	}
	kind, ok := models.ParseAttachmentKind(r.PathValue("kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	name := sheet.Attachment(kind)
	if name == "" {
		http.NotFound(w, r)
		return
	}
	rc, err := h.store.Open(r.Context(), storage.Key(sheet.ID, kind))
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": name}))
	if _, err := io.Copy(w, rc); err != nil {
		h.log.Warn("attachment stream interrupted", zap.Uint("sheet_id", sheet.ID), zap.Error(err))
	}
}
