// Package grant computes vesting grant schedules for DAO tasks, milestones
// and milestone subtasks.
//
// A reward is split among roles by percentage and each role's share is
// released in monthly installments after an optional lock period. Every
// schedule sums exactly to the role's allocation. All functions are pure and
// safe for concurrent use.
package grant

import (
	"fmt"
	"math"
	"sort"
)

// SecondsPerMonth is the length of one vesting tick (30 days).
const SecondsPerMonth int64 = 30 * 24 * 60 * 60

// Bounds on schedule inputs. Amounts up to MaxAmount can be split by percent
// without int64 overflow, and periods up to MaxPeriodMonths keep every
// unlock offset well inside int64.
const (
	MaxAmount       int64 = math.MaxInt64 / 100
	MaxPeriodMonths int64 = 1200
)

// Role identifies a party eligible for a share of a reward.
type Role string

const (
	RoleAssign  Role = "assign"
	RoleReview  Role = "review"
	RoleManager Role = "manager"
	RoleSubtask Role = "subtask"
)

var roleOrder = map[Role]int{
	RoleAssign:  0,
	RoleReview:  1,
	RoleManager: 2,
	RoleSubtask: 3,
}

// Title returns the human readable name used in validation messages.
func (r Role) Title() string {
	switch r {
	case RoleAssign:
		return "Assigner"
	case RoleReview:
		return "Reviewer"
	case RoleManager:
		return "Manager"
	case RoleSubtask:
		return "Subtask budget"
	default:
		return string(r)
	}
}

// ParseRole validates a role name.
func ParseRole(value string) (Role, error) {
	role := Role(value)
	if _, ok := roleOrder[role]; !ok {
		return "", fmt.Errorf("invalid role: %s", value)
	}
	return role, nil
}

// GrantPair is one installment: Amount tokens unlock UnlockOffset seconds
// after the grant start.
type GrantPair struct {
	Amount       int64 `json:"grant" yaml:"grant"`
	UnlockOffset int64 `json:"lock" yaml:"lock"`
}

// RoleGrant is the ordered installment list of a single role.
type RoleGrant []GrantPair

// Total returns the sum of all installment amounts.
func (g RoleGrant) Total() int64 {
	var sum int64
	for _, pair := range g {
		sum += pair.Amount
	}
	return sum
}

// Last returns the final installment, or a zero pair for an empty grant.
func (g RoleGrant) Last() GrantPair {
	if len(g) == 0 {
		return GrantPair{}
	}
	return g[len(g)-1]
}

// Offsets returns the unlock offsets in order.
func (g RoleGrant) Offsets() []int64 {
	out := make([]int64, 0, len(g))
	for _, pair := range g {
		out = append(out, pair.UnlockOffset)
	}
	return out
}

// Schedule maps each configured role to its grant.
type Schedule map[Role]RoleGrant

// Roles returns the configured roles in canonical order.
func (s Schedule) Roles() []Role {
	roles := make([]Role, 0, len(s))
	for role := range s {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roleOrder[roles[i]] < roleOrder[roles[j]] })
	return roles
}
