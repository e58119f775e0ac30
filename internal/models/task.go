package models

import "time"

// Task represents a DAO task, milestone or milestone subtask.
type Task struct {
	ID             string    `json:"id" yaml:"id"`
	Kind           TaskKind  `json:"kind" yaml:"kind"`
	Status         string    `json:"status" yaml:"status"`
	DAO            string    `json:"dao" yaml:"dao"`
	Repo           string    `json:"repo" yaml:"repo"`
	Name           string    `json:"name" yaml:"name"`
	MilestoneID    string    `json:"milestone_id,omitempty" yaml:"milestone_id,omitempty"`
	Reward         int64     `json:"reward" yaml:"reward"`
	Balance        int64     `json:"balance,omitempty" yaml:"balance,omitempty"`
	PercentAssign  int64     `json:"percent_assign" yaml:"percent_assign"`
	PercentReview  int64     `json:"percent_review" yaml:"percent_review"`
	PercentManager int64     `json:"percent_manager" yaml:"percent_manager"`
	LockMonths     int64     `json:"lock_months" yaml:"lock_months"`
	VestingMonths  int64     `json:"vesting_months" yaml:"vesting_months"`
	Manager        string    `json:"manager,omitempty" yaml:"manager,omitempty"`
	Comment        string    `json:"comment,omitempty" yaml:"comment,omitempty"`
	Tags           []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"updated_at"`
}

// Grant is one persisted installment of a task's grant schedule.
type Grant struct {
	Role         string `json:"role" yaml:"role"`
	Index        int    `json:"index" yaml:"index"`
	Amount       int64  `json:"grant" yaml:"grant"`
	UnlockOffset int64  `json:"lock" yaml:"lock"`
}

// Event is the DAO event recorded when a task is created or removed.
type Event struct {
	ID        string    `json:"id" yaml:"id"`
	TaskID    string    `json:"task_id" yaml:"task_id"`
	Kind      EventKind `json:"kind" yaml:"kind"`
	Comment   string    `json:"comment,omitempty" yaml:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
