package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"daotask/internal/api"
	"daotask/internal/format"
	"daotask/internal/grant"
)

var outputFormatter format.Formatter = format.JSONFormatter{}

func writeStructured(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeLines(w io.Writer, lines []string) error {
	_, err := fmt.Fprintf(w, "%s\n", strings.Join(lines, "\n"))
	return err
}

func writeTaskList(tasks []api.TaskResponse) error {
	for _, task := range tasks {
		if err := writePlain("%s\n", formatTaskLine(task)); err != nil {
			return err
		}
	}
	return nil
}

func writeTaskDetail(task api.TaskResponse) error {
	return writeLines(os.Stdout, taskDetailLines(task))
}

func taskDetailLines(task api.TaskResponse) []string {
	lines := []string{
		fmt.Sprintf("id: %s", task.ID),
		fmt.Sprintf("kind: %s", task.Kind),
		fmt.Sprintf("status: %s", task.Status),
		fmt.Sprintf("location: %s/%s", task.DAO, task.Repo),
		fmt.Sprintf("name: %s", task.Name),
		fmt.Sprintf("reward: %d", task.Reward),
	}
	if task.MilestoneID != "" {
		lines = append(lines, fmt.Sprintf("milestone_id: %s", task.MilestoneID))
	}
	if task.Kind == "milestone" {
		lines = append(lines, fmt.Sprintf("balance: %d", task.Balance))
	}
	if task.Manager != "" {
		lines = append(lines, fmt.Sprintf("manager: %s", task.Manager))
	}
	if task.PercentAssign+task.PercentReview+task.PercentManager > 0 {
		lines = append(lines, fmt.Sprintf("split: assign %d%% review %d%% manager %d%%",
			task.PercentAssign, task.PercentReview, task.PercentManager))
	}
	lines = append(lines, fmt.Sprintf("lock_months: %d", task.LockMonths))
	lines = append(lines, fmt.Sprintf("vesting_months: %d", task.VestingMonths))
	if len(task.Tags) > 0 {
		lines = append(lines, fmt.Sprintf("tags: %s", strings.Join(task.Tags, ", ")))
	}
	if task.Comment != "" {
		lines = append(lines, fmt.Sprintf("comment: %s", task.Comment))
	}
	lines = append(lines,
		fmt.Sprintf("created_at: %s", formatTime(task.CreatedAt)),
		fmt.Sprintf("updated_at: %s", formatTime(task.UpdatedAt)),
	)

	if len(task.Grants) > 0 {
		lines = append(lines, "grants:")
		lines = append(lines, scheduleLines(task.Grants, "  ")...)
	}
	if len(task.Events) > 0 {
		lines = append(lines, "events:")
		for _, event := range task.Events {
			lines = append(lines, fmt.Sprintf("  - %s %s %s", formatTime(event.CreatedAt), event.Kind, event.ID))
		}
	}
	return lines
}

// scheduleLines renders one line per installment, roles in canonical order.
func scheduleLines(schedule grant.Schedule, indent string) []string {
	var lines []string
	for _, role := range schedule.Roles() {
		lines = append(lines, fmt.Sprintf("%s%s (total %d):", indent, role, schedule[role].Total()))
		for i, pair := range schedule[role] {
			lines = append(lines, fmt.Sprintf("%s  %d. %d at %s", indent, i+1, pair.Amount, formatOffset(pair.UnlockOffset)))
		}
	}
	return lines
}

func summaryLines(summary grant.Summary) []string {
	return []string{
		fmt.Sprintf("reward: %d", summary.Reward),
		fmt.Sprintf("installments: %d", summary.Installments),
		fmt.Sprintf("vesting_end: %s", formatOffset(summary.VestingEnd)),
	}
}

func formatTaskLine(task api.TaskResponse) string {
	line := fmt.Sprintf("%s [%s] [%s] %s/%s %s reward=%d", task.ID, task.Kind, task.Status, task.DAO, task.Repo, task.Name, task.Reward)
	if task.Kind == "milestone" {
		line += fmt.Sprintf(" balance=%d", task.Balance)
	}
	return line
}

// formatOffset renders an unlock offset in seconds and whole vesting months.
func formatOffset(offset int64) string {
	if offset == 0 {
		return "+0s"
	}
	months := offset / grant.SecondsPerMonth
	if offset%grant.SecondsPerMonth == 0 {
		return fmt.Sprintf("+%ds (month %d)", offset, months)
	}
	return fmt.Sprintf("+%ds", offset)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
