package store

import (
	"context"
	"errors"
	"time"

	"daotask/internal/models"
)

// ErrInsufficientBudget is returned when a subtask amount exceeds the
// remaining balance of its milestone.
var ErrInsufficientBudget = errors.New("milestone budget is insufficient")

// ErrTaskNotFound is returned by mutations that target a missing task.
var ErrTaskNotFound = errors.New("task not found")

// TaskStore abstracts task storage backends.
type TaskStore interface {
	TaskExists(id string) (bool, error)
	FindTaskByName(ctx context.Context, dao, repo, name string) (*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task, grants []models.Grant, event models.Event) error
	CreateSubtask(ctx context.Context, task *models.Task, debit int64, grants []models.Grant, event models.Event) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	ListTasks(ctx context.Context, filter ListFilter) ([]models.Task, error)
	ListGrants(ctx context.Context, id string) ([]models.Grant, error)
	ListEvents(ctx context.Context, id string) ([]models.Event, error)
	DeleteTask(ctx context.Context, id string, deletedAt time.Time, event models.Event) error
	StoreInfo(ctx context.Context) (*StoreInfo, error)
}

// StoreInfo summarizes database contents.
type StoreInfo struct {
	DBPath        string         `json:"db_path"`
	SchemaVersion int            `json:"schema_version"`
	TaskCounts    map[string]int `json:"task_counts"`
	TotalTasks    int            `json:"total_tasks"`
}

var _ TaskStore = (*Store)(nil)
