package models

import "time"

// Project groups demand line items against sheets.
type Project struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Name      string        `gorm:"size:100;not null" json:"name"`
	Items     []ProjectItem `gorm:"foreignKey:ProjectID" json:"items,omitempty"`
}

// TableName keeps the historical table name.
func (Project) TableName() string { return "project" }

// OpenItems counts items that still contribute to demand.
func (p *Project) OpenItems() int {
	n := 0
	for _, it := range p.Items {
		if !it.Fulfilled {
			n++
		}
	}
	return n
}

// IsArchived is true once every item has been fulfilled.
// A project without items is not archived.
func (p *Project) IsArchived() bool {
	return len(p.Items) > 0 && p.OpenItems() == 0
}

// ProjectItem is one demand line: a sheet and the quantity the project needs.
type ProjectItem struct {
	ID               uint     `gorm:"primaryKey" json:"id"`
	ProjectID        uint     `gorm:"index;not null" json:"project_id"`
	Project          *Project `gorm:"foreignKey:ProjectID" json:"-"`
	SheetID          uint     `gorm:"column:sheet_id;index;not null" json:"sheet_id"`
	Sheet            *Sheet   `gorm:"foreignKey:SheetID" json:"sheet,omitempty"`
	RequiredQuantity int      `gorm:"not null" json:"required_quantity"`
	Fulfilled        bool     `gorm:"not null;default:false" json:"fulfilled"`
}

// TableName keeps the historical table name.
func (ProjectItem) TableName() string { return "project_item" }
