package db

import (
	"fmt"

	"github.com/diewo77/blachy/internal/models"
	"gorm.io/gorm"
)

var (
	seedMaterials   = []string{"Stal", "Aluminium"}
	seedThicknesses = []string{"3mm", "2mm", "5mm"}
)

type seedSheet struct {
	name, shortName, code string
	onHand                int
	material, thickness   string
	processing            string
}

var seedSheets = []seedSheet{
	{"Blacha A", "kątownik", "A001", 10, "Stal", "3mm", "CNC"},
	{"Blacha B", "płyta", "B001", 20, "Aluminium", "2mm", "Palenie"},
	{"Blacha C", "blacha robocza", "C001", 5, "Stal", "5mm", "Gięcie + Palenie"},
}

// Seed inserts the baseline catalog and, when the inventory is empty,
// three example sheets. It is safe to call on every start.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		materials := map[string]uint{}
		for _, name := range seedMaterials {
			m := models.MaterialOption{Name: name}
			if err := tx.Where(models.MaterialOption{Name: name}).FirstOrCreate(&m).Error; err != nil {
				return fmt.Errorf("seed material %s: %w", name, err)
			}
			materials[name] = m.ID
		}
		thicknesses := map[string]uint{}
		for _, value := range seedThicknesses {
			th := models.ThicknessOption{Value: value}
			if err := tx.Where(models.ThicknessOption{Value: value}).FirstOrCreate(&th).Error; err != nil {
				return fmt.Errorf("seed thickness %s: %w", value, err)
			}
			thicknesses[value] = th.ID
		}

		var count int64
		if err := tx.Model(&models.Sheet{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for _, s := range seedSheets {
			materialID := materials[s.material]
			thicknessID := thicknesses[s.thickness]
			sheet := models.Sheet{
				Name:           s.name,
				ShortName:      s.shortName,
				Code:           s.code,
				OnHandQuantity: s.onHand,
				MaterialID:     &materialID,
				ThicknessID:    &thicknessID,
				ProcessingType: s.processing,
			}
			if err := tx.Create(&sheet).Error; err != nil {
				return fmt.Errorf("seed sheet %s: %w", s.code, err)
			}
		}
		return nil
	})
}
