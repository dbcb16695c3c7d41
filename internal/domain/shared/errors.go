package shared

import (
	"fmt"
	"sort"
	"strings"
)

// DomainError is the base error type for all domain errors.
// Every validation failure raised by the transition core embeds it.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Resource errors

type InsufficientResourcesError struct {
	*DomainError
	Missing map[string]int
}

// NewInsufficientResourcesError reports every key whose requirement was not met.
// Missing holds the shortfall per key.
func NewInsufficientResourcesError(missing map[string]int) *InsufficientResourcesError {
	keys := make([]string, 0, len(missing))
	for k := range missing {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d %s", missing[k], k))
	}

	return &InsufficientResourcesError{
		DomainError: NewDomainError("not enough resources: missing " + strings.Join(parts, ", ")),
		Missing:     missing,
	}
}

type InsufficientEnergyError struct {
	*DomainError
	Required  float64
	Available float64
}

func NewInsufficientEnergyError(required, available float64) *InsufficientEnergyError {
	return &InsufficientEnergyError{
		DomainError: NewDomainError(fmt.Sprintf("too exhausted: need %.0f energy, have %.0f", required, available)),
		Required:    required,
		Available:   available,
	}
}

type MissingStructureError struct {
	*DomainError
	Structure string
}

func NewMissingStructureError(structure string) *MissingStructureError {
	return &MissingStructureError{
		DomainError: NewDomainError(fmt.Sprintf("requires %s to be built first", structure)),
		Structure:   structure,
	}
}

type ItemLockedError struct {
	*DomainError
	Item string
}

func NewItemLockedError(item string) *ItemLockedError {
	return &ItemLockedError{
		DomainError: NewDomainError(fmt.Sprintf("%s is locked and cannot be sold", item)),
		Item:        item,
	}
}

// Capacity errors

type QueueFullError struct {
	*DomainError
	Queued    int
	Requested int
	Limit     int
}

func NewQueueFullError(queued, requested, limit int) *QueueFullError {
	return &QueueFullError{
		DomainError: NewDomainError(fmt.Sprintf("queue full: %d queued, %d requested, limit %d", queued, requested, limit)),
		Queued:      queued,
		Requested:   requested,
		Limit:       limit,
	}
}

type SlotUnavailableError struct {
	*DomainError
}

func NewSlotUnavailableError(message string) *SlotUnavailableError {
	return &SlotUnavailableError{DomainError: NewDomainError(message)}
}

// State errors

type InvalidStateError struct {
	*DomainError
}

func NewInvalidStateError(message string) *InvalidStateError {
	return &InvalidStateError{DomainError: NewDomainError(message)}
}

type NotReadyError struct {
	*DomainError
}

func NewNotReadyError(message string) *NotReadyError {
	return &NotReadyError{DomainError: NewDomainError(message)}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UnknownEntryError is returned when an id is absent from the injected data tables.
type UnknownEntryError struct {
	*DomainError
	Table string
	ID    string
}

func NewUnknownEntryError(table, id string) *UnknownEntryError {
	return &UnknownEntryError{
		DomainError: NewDomainError(fmt.Sprintf("unknown %s %q", table, id)),
		Table:       table,
		ID:          id,
	}
}
