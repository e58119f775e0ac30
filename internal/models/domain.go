package models

import (
	"fmt"
	"strings"
)

// TaskKind distinguishes plain tasks from milestones and milestone subtasks.
type TaskKind string

const (
	KindTask      TaskKind = "task"
	KindMilestone TaskKind = "milestone"
	KindSubtask   TaskKind = "subtask"
)

// TaskStatus defines allowed lifecycle states for tasks.
type TaskStatus string

const (
	StatusOpen    TaskStatus = "open"
	StatusClosed  TaskStatus = "closed"
	StatusDeleted TaskStatus = "deleted"
)

// EventKind names the DAO event recorded alongside a task change.
type EventKind string

const (
	EventCreateTask      EventKind = "create_task"
	EventCreateMilestone EventKind = "create_milestone"
	EventCreateSubtask   EventKind = "create_subtask"
	EventDeleteTask      EventKind = "delete_task"
)

const (
	// SubtaskNameSeparator joins a milestone name and a subtask name.
	SubtaskNameSeparator = ":"

	MaxTags = 3
)

var validTaskKinds = map[TaskKind]struct{}{
	KindTask:      {},
	KindMilestone: {},
	KindSubtask:   {},
}

var validTaskStatuses = map[TaskStatus]struct{}{
	StatusOpen:    {},
	StatusClosed:  {},
	StatusDeleted: {},
}

func IsValidTaskKind(kind TaskKind) bool {
	_, ok := validTaskKinds[kind]
	return ok
}

func IsValidTaskStatus(status TaskStatus) bool {
	_, ok := validTaskStatuses[status]
	return ok
}

func ParseTaskKind(raw string) (TaskKind, error) {
	value := TaskKind(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("kind is required")
	}
	if !IsValidTaskKind(value) {
		return "", fmt.Errorf("invalid kind: %s", value)
	}
	return value, nil
}

func ParseTaskStatus(raw string) (TaskStatus, error) {
	value := TaskStatus(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("status is required")
	}
	if !IsValidTaskStatus(value) {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return value, nil
}

// SubtaskName returns the stored name of a subtask inside a milestone.
func SubtaskName(milestone, name string) string {
	return milestone + SubtaskNameSeparator + name
}
