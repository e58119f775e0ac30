package grant

import (
	"errors"
	"fmt"
)

// ValidationKind classifies a ValidationError.
type ValidationKind string

const (
	KindIncompleteVesting ValidationKind = "incomplete vesting schema"
	KindPercentSum        ValidationKind = "percent sum"
	KindInvalidValue      ValidationKind = "invalid value"
	KindDistribution      ValidationKind = "incorrect token distribution"
)

// ValidationError reports a grant configuration that cannot produce a
// well-formed schedule. No partial schedule accompanies it.
type ValidationError struct {
	Kind    ValidationKind
	Message string
	Role    Role
	Field   string
	Value   int64
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

func incompleteVesting(role Role) error {
	return &ValidationError{
		Kind:    KindIncompleteVesting,
		Message: fmt.Sprintf("%s has not enough tokens to pay all periods", role.Title()),
		Role:    role,
	}
}

func percentSum(sum int64) error {
	return &ValidationError{
		Kind:    KindPercentSum,
		Message: fmt.Sprintf("percent sum must equal 100%%, got %d%%", sum),
		Field:   "percent",
		Value:   sum,
	}
}

func invalidValue(field string, value int64, message string) error {
	return &ValidationError{
		Kind:    KindInvalidValue,
		Message: fmt.Sprintf("%s %s", field, message),
		Field:   field,
		Value:   value,
	}
}

func badDistribution(role Role, percent, total int64) error {
	return &ValidationError{
		Kind:    KindDistribution,
		Message: fmt.Sprintf("%s gets %d tokens for %d%%", role.Title(), total, percent),
		Role:    role,
		Field:   "percent",
		Value:   percent,
	}
}
