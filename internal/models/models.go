package models

// MaterialOption is a catalog entry for sheet material (e.g. "Stal").
type MaterialOption struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

// TableName pins the catalog table name.
func (MaterialOption) TableName() string { return "material_option" }

// ThicknessOption is a catalog entry for sheet thickness (e.g. "3mm").
type ThicknessOption struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Value string `gorm:"size:50;not null;uniqueIndex" json:"value"`
}

// TableName pins the catalog table name.
func (ThicknessOption) TableName() string { return "thickness_option" }

// Placeholder is rendered wherever an optional catalog reference is missing.
const Placeholder = "-"
