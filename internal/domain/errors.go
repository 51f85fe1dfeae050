package domain

import "errors"

// Domain-specific errors for the automation engine.
var (
	// Store errors
	ErrStoreUnavailable = errors.New("entity store unavailable")

	// Entity errors
	ErrUserNotFound   = errors.New("user not found")
	ErrEntityNotFound = errors.New("entity not found")

	// Action errors
	ErrMissingParameter  = errors.New("missing action parameter")
	ErrUnknownActionType = errors.New("unknown action type")

	// Delivery errors
	ErrDeliveryFailed = errors.New("message delivery failed")

	// Automation errors
	ErrAutomationNotFound = errors.New("automation not found")
	ErrInvalidTrigger     = errors.New("invalid trigger type")
	ErrInvalidAction      = errors.New("invalid action definition")
	ErrInvalidCondition   = errors.New("invalid trigger condition")

	// Validation errors
	ErrInvalidLookback = errors.New("lookback hours must be positive")
	ErrInvalidStatus   = errors.New("invalid status value")
)
