package services

import (
	"context"
	"errors"
	"testing"

	"github.com/diewo77/blachy/internal/models"
)

func TestConfirmIncrementsStock(t *testing.T) {
	conn := setupTestDB(t)
	a := createSheet(t, conn, "A001", 10)
	b := createSheet(t, conn, "B001", 20)
	svc := NewOrderService(conn, nil)

	order, err := svc.Confirm(context.Background(), []OrderLine{
		{SheetID: a.ID, Quantity: 5},
		{SheetID: b.ID, Quantity: 0},
		{SheetID: a.ID, Quantity: 3},
	})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 8 {
		t.Fatalf("items = %+v, want one merged line of 8", order.Items)
	}
	if got := onHand(t, conn, a.ID); got != 18 {
		t.Errorf("A001 on hand = %d, want 18", got)
	}
	if got := onHand(t, conn, b.ID); got != 20 {
		t.Errorf("B001 on hand = %d, want 20", got)
	}
}

func TestConfirmEmptyWritesNothing(t *testing.T) {
	conn := setupTestDB(t)
	a := createSheet(t, conn, "A001", 10)
	svc := NewOrderService(conn, nil)

	_, err := svc.Confirm(context.Background(), []OrderLine{{SheetID: a.ID, Quantity: 0}, {SheetID: a.ID, Quantity: -2}})
	if !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("err = %v, want ErrEmptyOrder", err)
	}
	var count int64
	conn.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Fatalf("orders = %d, want 0", count)
	}
	if got := onHand(t, conn, a.ID); got != 10 {
		t.Fatalf("on hand changed to %d", got)
	}
}

func TestConfirmUnknownSheetRollsBack(t *testing.T) {
	conn := setupTestDB(t)
	a := createSheet(t, conn, "A001", 10)
	svc := NewOrderService(conn, nil)

	_, err := svc.Confirm(context.Background(), []OrderLine{{SheetID: a.ID, Quantity: 4}, {SheetID: 999, Quantity: 1}})
	if !errors.Is(err, ErrSheetNotFound) {
		t.Fatalf("err = %v, want ErrSheetNotFound", err)
	}
	if got := onHand(t, conn, a.ID); got != 10 {
		t.Errorf("on hand = %d, want 10 after rollback", got)
	}
	var orders, items int64
	conn.Model(&models.Order{}).Count(&orders)
	conn.Model(&models.OrderItem{}).Count(&items)
	if orders != 0 || items != 0 {
		t.Errorf("orders=%d items=%d, want none", orders, items)
	}
}

func TestOrderGetListDelete(t *testing.T) {
	conn := setupTestDB(t)
	a := createSheet(t, conn, "A001", 10)
	b := createSheet(t, conn, "B001", 1)
	svc := NewOrderService(conn, nil)
	ctx := context.Background()

	order, err := svc.Confirm(ctx, []OrderLine{{SheetID: a.ID, Quantity: 2}, {SheetID: b.ID, Quantity: 3}})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Items) != 2 || got.Items[0].Sheet == nil || got.Items[0].Sheet.Code != "A001" {
		t.Fatalf("Get items = %+v", got.Items)
	}

	orders, err := svc.List(ctx)
	if err != nil || len(orders) != 1 {
		t.Fatalf("List = %v, %v", orders, err)
	}

	orderID, err := svc.DeleteItem(ctx, got.Items[1].ID)
	if err != nil || orderID != order.ID {
		t.Fatalf("DeleteItem = %d, %v", orderID, err)
	}
	if _, err := svc.DeleteItem(ctx, got.Items[1].ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("second DeleteItem err = %v", err)
	}

	if err := svc.Delete(ctx, order.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("Get after delete err = %v", err)
	}
	if err := svc.Delete(ctx, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("second Delete err = %v", err)
	}
	if got := onHand(t, conn, a.ID); got != 12 {
		t.Errorf("deleting an order must not change stock, on hand = %d", got)
	}
}
