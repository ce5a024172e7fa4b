package services

import "errors"

var (
	// ErrEmptyOrder is returned when no line with a positive quantity remains.
	ErrEmptyOrder = errors.New("order has no positive quantities")
	// ErrSheetNotFound is returned for an unknown sheet id.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrOrderNotFound is returned for an unknown order or order item id.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProjectNotFound is returned for an unknown project id.
	ErrProjectNotFound = errors.New("project not found")
)
