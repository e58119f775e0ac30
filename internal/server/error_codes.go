package server

import "daotask/internal/grant"

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument = 1000
	ErrCodeInvalidJSON     = 1001
	ErrCodeRequestTooLarge = 1002
	ErrCodeInvalidQuery    = 1003
	ErrCodeInvalidID       = 1004
	ErrCodeInvalidStatus   = 1005
	ErrCodeInvalidKind     = 1006
	ErrCodeInvalidTag      = 1008
	ErrCodeMissingRequired = 1009
	ErrCodeInvalidName     = 1010
	ErrCodeGrantLimit      = 1011

	// Grant schedule (11xx)
	ErrCodeIncompleteVesting = 1101
	ErrCodePercentSum        = 1102
	ErrCodeInvalidGrantValue = 1103
	ErrCodeDistribution      = 1104

	// Domain state (2xxx)
	ErrCodeTaskNotFound       = 2001
	ErrCodeMilestoneNotFound  = 2002
	ErrCodeTaskNameExists     = 2101
	ErrCodeConflict           = 2102
	ErrCodeInsufficientBudget = 2103
	ErrCodeMilestoneHasTasks  = 2104

	// Auth (3xxx)
	ErrCodeUnauthorized = 3001

	// Internal/system (4xxx)
	ErrCodeInternal     = 4001
	ErrCodeStoreFailure = 4002
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 401:
		return ErrCodeUnauthorized
	case 404:
		return ErrCodeTaskNotFound
	case 409:
		return ErrCodeConflict
	case 500:
		return ErrCodeInternal
	default:
		return 0
	}
}

func grantErrorCode(kind grant.ValidationKind) int {
	switch kind {
	case grant.KindIncompleteVesting:
		return ErrCodeIncompleteVesting
	case grant.KindPercentSum:
		return ErrCodePercentSum
	case grant.KindInvalidValue:
		return ErrCodeInvalidGrantValue
	case grant.KindDistribution:
		return ErrCodeDistribution
	default:
		return ErrCodeInvalidArgument
	}
}
