// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrEmptyLegSet      = errors.New("leg set contains no legs")
	ErrInvalidSpot      = errors.New("spot price must be positive")
	ErrInvalidStep      = errors.New("strike step must be positive")
	ErrDegenerateDomain = errors.New("price domain has no width")
	ErrTemplateNotFound = errors.New("strategy template not found")
	ErrStrategyNotFound = errors.New("saved strategy not found")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrDataNotFound     = errors.New("data not found")
	ErrDatabaseError    = errors.New("database error")
)

// LegError reports an invalid field on a strategy leg. Index is the
// position of the leg within its set, or -1 for a standalone leg.
type LegError struct {
	Index   int
	Field   string
	Value   interface{}
	Message string
}

func (e *LegError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid leg [%d]: %s (%v): %s", e.Index, e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("invalid leg: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewLegError creates a new LegError.
func NewLegError(index int, field string, value interface{}, message string) *LegError {
	return &LegError{
		Index:   index,
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// SpotError reports an unusable underlying spot price.
type SpotError struct {
	Spot float64
}

func (e *SpotError) Error() string {
	return fmt.Sprintf("invalid spot price %.4f: %v", e.Spot, ErrInvalidSpot)
}

func (e *SpotError) Unwrap() error {
	return ErrInvalidSpot
}

// NewSpotError creates a new SpotError.
func NewSpotError(spot float64) *SpotError {
	return &SpotError{Spot: spot}
}

// DomainError reports a price domain that cannot be sampled.
type DomainError struct {
	Low  float64
	High float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("invalid domain [%.4f, %.4f]: %v", e.Low, e.High, ErrDegenerateDomain)
}

func (e *DomainError) Unwrap() error {
	return ErrDegenerateDomain
}

// NewDomainError creates a new DomainError.
func NewDomainError(low, high float64) *DomainError {
	return &DomainError{Low: low, High: high}
}

// TemplateError reports a problem with a strategy template definition.
type TemplateError struct {
	TemplateID string
	Message    string
	Err        error
}

func (e *TemplateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("template error [%s]: %s: %v", e.TemplateID, e.Message, e.Err)
	}
	return fmt.Sprintf("template error [%s]: %s", e.TemplateID, e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// NewTemplateError creates a new TemplateError.
func NewTemplateError(templateID, message string, err error) *TemplateError {
	return &TemplateError{
		TemplateID: templateID,
		Message:    message,
		Err:        err,
	}
}

// StoreError represents a persistence-layer error.
type StoreError struct {
	Operation string
	Entity    string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store error [%s] %s: %v", e.Operation, e.Entity, e.Err)
	}
	return fmt.Sprintf("store error [%s] %s", e.Operation, e.Entity)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation, entity string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Entity:    entity,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
