package services

import "errors"

var (
	ErrValidation           = errors.New("validation error")
	ErrNotFound             = errors.New("not found")
	ErrDuplicate            = errors.New("already exists")
	ErrInvalidTransition    = errors.New("invalid booking status transition")
	ErrSlotTaken            = errors.New("barber already has a booking at this date and time")
	ErrInsufficientPoints   = errors.New("insufficient loyalty points")
	ErrNoActiveRule         = errors.New("no active loyalty rule")
	ErrPlanLimitExceeded    = errors.New("plan limit exceeded")
	ErrReferentialIntegrity = errors.New("referential integrity violation")
	ErrInsufficientStock    = errors.New("insufficient stock")
)

var (
	ErrBookingNotFound  = wrapKind(ErrNotFound, "booking not found")
	ErrClientNotFound   = wrapKind(ErrNotFound, "client not found")
	ErrBarberNotFound   = wrapKind(ErrNotFound, "barber not found")
	ErrServiceNotFound  = wrapKind(ErrNotFound, "service not found")
	ErrRewardNotFound   = wrapKind(ErrNotFound, "reward not found")
	ErrRuleNotFound     = wrapKind(ErrNotFound, "loyalty rule not found")
	ErrProductNotFound  = wrapKind(ErrNotFound, "product not found")
	ErrCategoryNotFound = wrapKind(ErrNotFound, "category not found")

	ErrTrialExpired  = wrapKind(ErrPlanLimitExceeded, "trial period has expired")
	ErrModuleLocked  = wrapKind(ErrPlanLimitExceeded, "module not included in plan")
	ErrBarberLimit   = wrapKind(ErrPlanLimitExceeded, "barber limit reached for plan")
	ErrCategoryInUse = wrapKind(ErrReferentialIntegrity, "category still has products")
)

// kindError is a named error that also matches its broader kind with errors.Is.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func wrapKind(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}
