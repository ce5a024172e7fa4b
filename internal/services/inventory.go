package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/blachy/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InventoryService reads the sheet inventory together with project demand.
type InventoryService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewInventoryService(db *gorm.DB, log *zap.Logger) *InventoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &InventoryService{db: db, log: log}
}

// Sheets returns every sheet with its catalog references, in id order.
func (s *InventoryService) Sheets(ctx context.Context) ([]models.Sheet, error) {
	var sheets []models.Sheet
	err := s.db.WithContext(ctx).
		Preload("Material").
		Preload("Thickness").
		Order("id").
		Find(&sheets).Error
	if err != nil {
		return nil, fmt.Errorf("load sheets: %w", err)
	}
	return sheets, nil
}

// Sheet loads one sheet or returns ErrSheetNotFound.
func (s *InventoryService) Sheet(ctx context.Context, id uint) (*models.Sheet, error) {
	var sheet models.Sheet
	err := s.db.WithContext(ctx).
		Preload("Material").
		Preload("Thickness").
		First(&sheet, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSheetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load sheet %d: %w", id, err)
	}
	return &sheet, nil
}

// OpenItems returns every project item that still counts towards demand.
func (s *InventoryService) OpenItems(ctx context.Context) ([]models.ProjectItem, error) {
	var items []models.ProjectItem
	if err := s.db.WithContext(ctx).Where("fulfilled = ?", false).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load project items: %w", err)
	}
	return items, nil
}

// Demand recomputes needed and shortage for every sheet from the ledger.
func (s *InventoryService) Demand(ctx context.Context) ([]SheetDemand, error) {
	sheets, err := s.Sheets(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.OpenItems(ctx)
	if err != nil {
		return nil, err
	}
	return BuildDemand(sheets, items), nil
}

// DeleteSheet removes a sheet together with the project and order items
// that reference it. Attachments are the caller's concern.
func (s *InventoryService) DeleteSheet(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Sheet{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrSheetNotFound
		}
		if err := tx.Where("sheet_id = ?", id).Delete(&models.ProjectItem{}).Error; err != nil {
			return fmt.Errorf("delete project items: %w", err)
		}
		if err := tx.Where("sheet_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		if err := tx.Delete(&models.Sheet{}, id).Error; err != nil {
			return fmt.Errorf("delete sheet: %w", err)
		}
		s.log.Info("sheet deleted", zap.Uint("sheet_id", id))
		return nil
	})
}

// ArchiveProject marks every item of the project as fulfilled in one statement.
func (s *InventoryService) ArchiveProject(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrProjectNotFound
	}
	res := s.db.WithContext(ctx).
		Model(&models.ProjectItem{}).
		Where("project_id = ?", projectID).
		Update("fulfilled", true)
	if res.Error != nil {
		return 0, fmt.Errorf("archive project %d: %w", projectID, res.Error)
	}
	s.log.Info("project archived", zap.Uint("project_id", projectID), zap.Int64("items", res.RowsAffected))
	return res.RowsAffected, nil
}
