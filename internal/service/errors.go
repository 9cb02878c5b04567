package service

import (
	"errors"
	"fmt"
)

// Only validation is fatal to a calculation; missing reference data and
// unreachable upstream stores degrade to documented fallbacks and are
// flagged on the result instead.
var (
	ErrValidation       = errors.New("validation failed")
	ErrPolicyResolution = errors.New("policy resolution failed")
)

func validationError(field, message string) error {
	return fmt.Errorf("%w: %s: %s", ErrValidation, field, message)
}
