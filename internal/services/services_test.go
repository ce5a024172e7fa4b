package services

import (
	"testing"

	"github.com/diewo77/blachy/internal/db"
	"github.com/diewo77/blachy/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), db.GormConfig(false))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func createSheet(t *testing.T, conn *gorm.DB, code string, onHand int) models.Sheet {
	t.Helper()
	s := models.Sheet{Name: "Blacha " + code, Code: code, OnHandQuantity: onHand}
	if err := conn.Create(&s).Error; err != nil {
		t.Fatalf("create sheet %s: %v", code, err)
	}
	return s
}

func createProject(t *testing.T, conn *gorm.DB, name string, items ...models.ProjectItem) models.Project {
	t.Helper()
	p := models.Project{Name: name, Items: items}
	if err := conn.Create(&p).Error; err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func onHand(t *testing.T, conn *gorm.DB, id uint) int {
	t.Helper()
	var s models.Sheet
	if err := conn.First(&s, id).Error; err != nil {
		t.Fatalf("load sheet %d: %v", id, err)
	}
	return s.OnHandQuantity
}
