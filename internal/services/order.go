package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/blachy/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderLine is one (sheet, quantity) pair of a draft.
type OrderLine struct {
	SheetID  uint `json:"sheet_id"`
	Quantity int  `json:"quantity"`
}

type OrderService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewOrderService(db *gorm.DB, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{db: db, log: log}
}

// normalize drops non-positive quantities and merges repeated sheets,
// keeping the first-seen order.
func normalize(lines []OrderLine) []OrderLine {
	idx := make(map[uint]int, len(lines))
	var out []OrderLine
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i, ok := idx[l.SheetID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		idx[l.SheetID] = len(out)
		out = append(out, l)
	}
	return out
}

// Confirm persists the order, its items and the stock increments in a
// single transaction. Either everything is written or nothing is.
func (s *OrderService) Confirm(ctx context.Context, lines []OrderLine) (*models.Order, error) {
	lines = normalize(lines)
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		items := make([]models.OrderItem, 0, len(lines))
		for _, l := range lines {
			res := tx.Model(&models.Sheet{}).
				Where("id = ?", l.SheetID).
				Update("on_hand_quantity", gorm.Expr("on_hand_quantity + ?", l.Quantity))
			if res.Error != nil {
				return fmt.Errorf("increment sheet %d: %w", l.SheetID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("sheet %d: %w", l.SheetID, ErrSheetNotFound)
			}
			items = append(items, models.OrderItem{OrderID: order.ID, SheetID: l.SheetID, Quantity: l.Quantity})
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("create order items: %w", err)
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order confirmed", zap.Uint("order_id", order.ID), zap.Int("lines", len(lines)))
	return &order, nil
}

// Get loads an order with its items and their sheets.
func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Sheet.Material").
		Preload("Items.Sheet.Thickness").
		First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}
	return &order, nil
}

// List returns all orders, newest first, with their items.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Delete removes an order and its items. Stock is not touched.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
}

// DeleteItem removes a single order item and returns the id of its order.
func (s *OrderService) DeleteItem(ctx context.Context, itemID uint) (uint, error) {
	var item models.OrderItem
	err := s.db.WithContext(ctx).First(&item, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrOrderNotFound
	}
	if err != nil {
		return 0, err
	}
	if err := s.db.WithContext(ctx).Delete(&item).Error; err != nil {
		return 0, fmt.Errorf("delete order item %d: %w", itemID, err)
	}
	return item.OrderID, nil
}
