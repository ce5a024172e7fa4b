package models

import (
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// AttachmentKind identifies one of the files a sheet can carry.
type AttachmentKind string

const (
	AttachmentPDF   AttachmentKind = "pdf"
	AttachmentDXF   AttachmentKind = "dxf"
	AttachmentImage AttachmentKind = "image"
)

// AttachmentKinds lists every kind in form order.
var AttachmentKinds = []AttachmentKind{AttachmentPDF, AttachmentDXF, AttachmentImage}

// ParseAttachmentKind maps a path or form value to a kind.
func ParseAttachmentKind(s string) (AttachmentKind, bool) {
	k := AttachmentKind(strings.ToLower(s))
	if slices.Contains(AttachmentKinds, k) {
		return k, true
	}
	return "", false
}

// AllowedExtensions returns the lower-case extensions (without dot) accepted for the kind.
func (k AttachmentKind) AllowedExtensions() []string {
	switch k {
	case AttachmentPDF:
		return []string{"pdf"}
	case AttachmentDXF:
		return []string{"dxf"}
	case AttachmentImage:
		return []string{"png", "jpg", "jpeg", "gif"}
	}
	return nil
}

// Accepts reports whether filename has an extension allowed for the kind.
func (k AttachmentKind) Accepts(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	return slices.Contains(k.AllowedExtensions(), ext)
}

// Sheet is a stock keeping unit of sheet metal ("blacha").
type Sheet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name      string `gorm:"column:display_name;size:100;not null" json:"display_name"`
	ShortName string `gorm:"size:100" json:"short_name,omitempty"`
	Code      string `gorm:"size:50;not null;uniqueIndex" json:"code"`

	// OnHandQuantity is expected to stay >= 0 but is not enforced.
	OnHandQuantity int `gorm:"not null;default:0" json:"on_hand_quantity"`

	MaterialID  *uint            `gorm:"index" json:"material_id,omitempty"`
	Material    *MaterialOption  `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
	ThicknessID *uint            `gorm:"index" json:"thickness_id,omitempty"`
	Thickness   *ThicknessOption `gorm:"foreignKey:ThicknessID" json:"thickness,omitempty"`

	ProcessingType string `gorm:"size:50" json:"processing_type,omitempty"`

	// Original file names, used as download names. Stored objects are keyed by (ID, kind).
	PDFFile   string `gorm:"column:pdf_file;size:200" json:"pdf_file,omitempty"`
	DXFFile   string `gorm:"column:dxf_file;size:200" json:"dxf_file,omitempty"`
	ImageFile string `gorm:"column:image_file;size:200" json:"image_file,omitempty"`
}

// TableName keeps the historical table name.
func (Sheet) TableName() string { return "blacha" }

// MaterialName returns the material name or the placeholder.
func (s *Sheet) MaterialName() string {
	if s.Material == nil || s.Material.Name == "" {
		return Placeholder
	}
	return s.Material.Name
}

// ThicknessValue returns the thickness or the placeholder.
func (s *Sheet) ThicknessValue() string {
	if s.Thickness == nil || s.Thickness.Value == "" {
		return Placeholder
	}
	return s.Thickness.Value
}

// Attachment returns the stored file name for kind, empty when none.
func (s *Sheet) Attachment(kind AttachmentKind) string {
	switch kind {
	case AttachmentPDF:
		return s.PDFFile
	case AttachmentDXF:
		return s.DXFFile
	case AttachmentImage:
		return s.ImageFile
	}
	return ""
}

// SetAttachment records the file name for kind.
func (s *Sheet) SetAttachment(kind AttachmentKind, name string) {
	switch kind {
	case AttachmentPDF:
		s.PDFFile = name
	case AttachmentDXF:
		s.DXFFile = name
	case AttachmentImage:
		s.ImageFile = name
	}
}

// AttachmentColumn returns the column backing kind.
func AttachmentColumn(kind AttachmentKind) string {
	switch kind {
	case AttachmentPDF:
		return "pdf_file"
	case AttachmentDXF:
		return "dxf_file"
	case AttachmentImage:
		return "image_file"
	}
	return ""
}
