package db

import (
	"github.com/diewo77/blachy/internal/models"
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// Migrate applies every pending schema migration.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	return m.Migrate()
}

func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "20250301_create_catalog_and_sheets",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.MaterialOption{}, &models.ThicknessOption{}, &models.Sheet{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.Sheet{}, &models.ThicknessOption{}, &models.MaterialOption{})
			},
		},
		{
			ID: "20250308_create_projects",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Project{}, &models.ProjectItem{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.ProjectItem{}, &models.Project{})
			},
		},
		{
			ID: "20250315_create_orders",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Order{}, &models.OrderItem{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.OrderItem{}, &models.Order{})
			},
		},
	}
}
