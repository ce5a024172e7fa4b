package models

import (
	"testing"
)

func TestSheet_CatalogPlaceholders(t *testing.T) {
	tests := []struct {
		name          string
		sheet         Sheet
		wantMaterial  string
		wantThickness string
	}{
		{
			name: "both set",
			sheet: Sheet{
				Material:  &MaterialOption{Name: "Stal"},
				Thickness: &ThicknessOption{Value: "3mm"},
			},
			wantMaterial:  "Stal",
			wantThickness: "3mm",
		},
		{
			name:          "none set",
			sheet:         Sheet{},
			wantMaterial:  "-",
			wantThickness: "-",
		},
		{
			name:          "only material",
			sheet:         Sheet{Material: &MaterialOption{Name: "Aluminium"}},
			wantMaterial:  "Aluminium",
			wantThickness: "-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sheet.MaterialName(); got != tt.wantMaterial {
				t.Errorf("MaterialName() = %q, want %q", got, tt.wantMaterial)
			}
			if got := tt.sheet.ThicknessValue(); got != tt.wantThickness {
				t.Errorf("ThicknessValue() = %q, want %q", got, tt.wantThickness)
			}
		})
	}
}

func TestAttachmentKind_Accepts(t *testing.T) {
	tests := []struct {
		kind     AttachmentKind
		filename string
		want     bool
	}{
		{AttachmentPDF, "rysunek.pdf", true},
		{AttachmentPDF, "RYSUNEK.PDF", true},
		{AttachmentPDF, "rysunek.dxf", false},
		{AttachmentDXF, "detal.dxf", true},
		{AttachmentDXF, "detal", false},
		{AttachmentImage, "foto.jpeg", true},
		{AttachmentImage, "foto.gif", true},
		{AttachmentImage, "foto.bmp", false},
		{AttachmentImage, "foto.pdf", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.filename, func(t *testing.T) {
			if got := tt.kind.Accepts(tt.filename); got != tt.want {
				t.Errorf("Accepts(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestParseAttachmentKind(t *testing.T) {
	if k, ok := ParseAttachmentKind("DXF"); !ok || k != AttachmentDXF {
		t.Errorf("ParseAttachmentKind(DXF) = %q, %v", k, ok)
	}
	if _, ok := ParseAttachmentKind("step"); ok {
		t.Error("ParseAttachmentKind(step) should fail")
	}
}

func TestSheet_Attachments(t *testing.T) {
	var s Sheet
	for _, k := range AttachmentKinds {
		s.SetAttachment(k, string(k)+".file")
	}
	if s.PDFFile != "pdf.file" || s.DXFFile != "dxf.file" || s.ImageFile != "image.file" {
		t.Fatalf("SetAttachment wrote %+v", s)
	}
	for _, k := range AttachmentKinds {
		if got := s.Attachment(k); got != string(k)+".file" {
			t.Errorf("Attachment(%s) = %q", k, got)
		}
		if AttachmentColumn(k) == "" {
			t.Errorf("AttachmentColumn(%s) is empty", k)
		}
	}
}

func TestProject_Archived(t *testing.T) {
	tests := []struct {
		name     string
		items    []ProjectItem
		open     int
		archived bool
	}{
		{"no items", nil, 0, false},
		{"all open", []ProjectItem{{}, {}}, 2, false},
		{"mixed", []ProjectItem{{Fulfilled: true}, {}}, 1, false},
		{"all fulfilled", []ProjectItem{{Fulfilled: true}, {Fulfilled: true}}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Project{Items: tt.items}
			if got := p.OpenItems(); got != tt.open {
				t.Errorf("OpenItems() = %d, want %d", got, tt.open)
			}
			if got := p.IsArchived(); got != tt.archived {
				t.Errorf("IsArchived() = %v, want %v", got, tt.archived)
			}
		})
	}
}

func TestOrder_TotalQuantity(t *testing.T) {
	o := &Order{Items: []OrderItem{{Quantity: 5}, {Quantity: 3}}}
	if got := o.TotalQuantity(); got != 8 {
		t.Errorf("TotalQuantity() = %d, want 8", got)
	}
}
