package types

import (
	"errors"
	"fmt"
)

// Failure modes of the booking lifecycle. Handlers map these onto HTTP
// statuses; everything else surfaces as a generic 500.
var (
	ErrSlotUnavailable          = errors.New("selected appointment slot is not available")
	ErrInsufficientSlotDuration = errors.New("appointment slot is shorter than the estimated service duration")
)

type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Entity, e.ID)
}

func NewNotFoundError(entity string, id uint) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

type InsufficientStockError struct {
	PartName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("spare part out of stock: %s", e.PartName)
}

type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return e.Reason
}
