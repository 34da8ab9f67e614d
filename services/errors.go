package services

import (
	"fmt"
	"strings"

	"github.com/egnner/project-delivery-sub001/models"
)

// Error codes surfaced to API clients alongside the human-readable message.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeStoreClosed       = "STORE_CLOSED"
	CodeInvalidState      = "INVALID_STATE"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeAlreadyDecided    = "ALREADY_DECIDED"
	CodePersistence       = "DATABASE_ERROR"
)

// ValidationError reports every violated field of a request, not just the
// first one, so the client can fix them all in one round trip.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s", strings.Join(e.Fields, ", "))
}

// Code returns the machine-readable error code
func (e *ValidationError) Code() string { return CodeValidation }

// StoreClosedError means the store is not accepting orders right now. The
// caller can retry later; nothing was persisted.
type StoreClosedError struct{}

func (e *StoreClosedError) Error() string {
	return "the store is currently closed and not accepting orders"
}

// Code returns the machine-readable error code
func (e *StoreClosedError) Code() string { return CodeStoreClosed }

// InvalidStateError means a fulfillment transition was requested while the
// payment decision does not allow any fulfillment progress.
type InvalidStateError struct {
	PaymentStatus models.PaymentStatus
	Requested     models.FulfillmentStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot move order to %q while payment is %q", e.Requested, e.PaymentStatus)
}

// Code returns the machine-readable error code
func (e *InvalidStateError) Code() string { return CodeInvalidState }

// InvalidTransitionError names the current and the requested fulfillment
// status of a transition the state machine does not allow.
type InvalidTransitionError struct {
	Mode models.DeliveryMode
	From models.FulfillmentStatus
	To   models.FulfillmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition from %q to %q", e.Mode, e.From, e.To)
}

// Code returns the machine-readable error code
func (e *InvalidTransitionError) Code() string { return CodeInvalidTransition }

// AlreadyDecidedError means a second payment decision was attempted on an
// order whose payment status is no longer pending.
type AlreadyDecidedError struct {
	PaymentStatus models.PaymentStatus
}

func (e *AlreadyDecidedError) Error() string {
	return fmt.Sprintf("payment was already decided: status is %q", e.PaymentStatus)
}

// Code returns the machine-readable error code
func (e *AlreadyDecidedError) Code() string { return CodeAlreadyDecided }

// PersistenceError wraps a storage failure. The request fails as a whole; the
// transactional write guarantees no partially-itemed order becomes visible.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Code returns the machine-readable error code
func (e *PersistenceError) Code() string { return CodePersistence }
