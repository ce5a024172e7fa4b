package db

import (
	"testing"

	"github.com/diewo77/blachy/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	d, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), GormConfig(false))
	if err != nil {
		t.Fatal(err)
	}
	if err := Migrate(d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d
}

func TestMigrateIsRepeatable(t *testing.T) {
	d := openTestDB(t)
	if err := Migrate(d); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	for _, table := range []string{"material_option", "thickness_option", "blacha", "project", "project_item", "order", "order_item"} {
		if !d.Migrator().HasTable(table) {
			t.Errorf("missing table %s", table)
		}
	}
	if !d.Migrator().HasColumn(&models.ProjectItem{}, "Fulfilled") {
		t.Error("project_item.fulfilled missing")
	}
	if !d.Migrator().HasColumn(&models.Sheet{}, "ImageFile") {
		t.Error("blacha.image_file missing")
	}
}

func TestSeedIdempotent(t *testing.T) {
	d := openTestDB(t)
	if err := Seed(d); err != nil {
		t.Fatal(err)
	}
	if err := Seed(d); err != nil {
		t.Fatal(err)
	}

	var mCount, tCount, sCount int64
	d.Model(&models.MaterialOption{}).Count(&mCount)
	d.Model(&models.ThicknessOption{}).Count(&tCount)
	d.Model(&models.Sheet{}).Count(&sCount)
	if mCount != 2 {
		t.Fatalf("expected 2 materials got %d", mCount)
	}
	if tCount != 3 {
		t.Fatalf("expected 3 thicknesses got %d", tCount)
	}
	if sCount != 3 {
		t.Fatalf("expected 3 sheets got %d", sCount)
	}

	var a001 models.Sheet
	if err := d.Preload("Material").Preload("Thickness").Where("code = ?", "A001").First(&a001).Error; err != nil {
		t.Fatalf("A001: %v", err)
	}
	if a001.MaterialName() != "Stal" || a001.ThicknessValue() != "3mm" || a001.OnHandQuantity != 10 {
		t.Fatalf("unexpected A001: %+v", a001)
	}
}

func TestSeedSkipsSheetsWhenInventoryExists(t *testing.T) {
	d := openTestDB(t)
	if err := d.Create(&models.Sheet{Name: "Własna", Code: "X100", OnHandQuantity: 1}).Error; err != nil {
		t.Fatal(err)
	}
	if err := Seed(d); err != nil {
		t.Fatal(err)
	}
	var sCount int64
	d.Model(&models.Sheet{}).Count(&sCount)
	if sCount != 1 {
		t.Fatalf("expected existing inventory untouched, got %d sheets", sCount)
	}
}

func TestMaskDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"host=db user=u password=secret dbname=x", "host=db user=u password=*** dbname=x"},
		{"postgres://u:secret@db:5432/x", "postgres://u:***@db:5432/x"},
	}
	for _, tt := range tests {
		if got := maskDSN(tt.in); got != tt.want {
			t.Errorf("maskDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
