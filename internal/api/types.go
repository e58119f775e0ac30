package api

import (
	"daotask/internal/grant"
	"daotask/internal/models"
)

// ErrorResponse is a generic JSON error wrapper.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// GrantTerms carries the reward and vesting parameters of a plain task.
type GrantTerms struct {
	Cost           int64 `json:"cost" yaml:"cost"`
	PercentAssign  int64 `json:"percent_assign" yaml:"percent_assign"`
	PercentReview  int64 `json:"percent_review" yaml:"percent_review"`
	PercentManager int64 `json:"percent_manager" yaml:"percent_manager"`
	LockMonths     int64 `json:"lock_months" yaml:"lock_months"`
	VestingMonths  int64 `json:"vesting_months" yaml:"vesting_months"`
}

// Config converts the terms into the grant calculator input.
func (t GrantTerms) Config() grant.TaskConfig {
	return grant.TaskConfig{
		TotalCost:      t.Cost,
		PercentAssign:  t.PercentAssign,
		PercentReview:  t.PercentReview,
		PercentManager: t.PercentManager,
		LockMonths:     t.LockMonths,
		VestingMonths:  t.VestingMonths,
	}
}

// GrantPreviewRequest is the payload for POST /v1/grants/preview.
type GrantPreviewRequest struct {
	GrantTerms `yaml:",inline"`
}

// GrantPreviewResponse holds a computed, unsaved schedule.
type GrantPreviewResponse struct {
	Schedule grant.Schedule `json:"schedule" yaml:"schedule"`
	Summary  grant.Summary  `json:"summary" yaml:"summary"`
}

// TaskCreateRequest defines the payload for creating a task.
type TaskCreateRequest struct {
	DAO        string   `json:"dao" yaml:"dao"`
	Repo       string   `json:"repo" yaml:"repo"`
	Name       string   `json:"name" yaml:"name"`
	GrantTerms `yaml:",inline"`
	Tags       []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Comment    string   `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// MilestoneCreateRequest defines the payload for creating a milestone.
type MilestoneCreateRequest struct {
	DAO           string   `json:"dao" yaml:"dao"`
	Repo          string   `json:"repo" yaml:"repo"`
	Name          string   `json:"name" yaml:"name"`
	Manager       string   `json:"manager,omitempty" yaml:"manager,omitempty"`
	ManagerReward int64    `json:"manager_reward" yaml:"manager_reward"`
	Budget        int64    `json:"budget" yaml:"budget"`
	LockMonths    int64    `json:"lock_months" yaml:"lock_months"`
	VestingMonths int64    `json:"vesting_months" yaml:"vesting_months"`
	Tags          []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Comment       string   `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// SubtaskCreateRequest defines the payload for adding a task to a milestone.
type SubtaskCreateRequest struct {
	Name           string   `json:"name" yaml:"name"`
	Amount         int64    `json:"amount" yaml:"amount"`
	PercentAssign  int64    `json:"percent_assign" yaml:"percent_assign"`
	PercentReview  int64    `json:"percent_review" yaml:"percent_review"`
	PercentManager int64    `json:"percent_manager" yaml:"percent_manager"`
	Tags           []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Comment        string   `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// TaskResponse is a task with its grant schedule and history.
type TaskResponse struct {
	models.Task `yaml:",inline"`
	Grants      grant.Schedule `json:"grants,omitempty" yaml:"grants,omitempty"`
	Summary     *grant.Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
	Events      []models.Event `json:"events,omitempty" yaml:"events,omitempty"`
}

// InfoResponse is the response from GET /v1/info.
type InfoResponse struct {
	ProjectPrefix    string         `json:"project_prefix"`
	SchemaVersion    int            `json:"schema_version"`
	DBPath           string         `json:"db_path"`
	TaskCounts       map[string]int `json:"task_counts"`
	TotalTasks       int            `json:"total_tasks"`
	AuthRequired     bool           `json:"auth_required"`
	MaxLockMonths    int64          `json:"max_lock_months"`
	MaxVestingMonths int64          `json:"max_vesting_months"`
}
