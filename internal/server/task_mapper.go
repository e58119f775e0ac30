package server

import (
	"fmt"
	"sort"

	"daotask/internal/api"
	"daotask/internal/grant"
	"daotask/internal/models"
)

// scheduleToGrants flattens a schedule into persisted installment rows.
func scheduleToGrants(schedule grant.Schedule) []models.Grant {
	var grants []models.Grant
	for _, role := range schedule.Roles() {
		for i, pair := range schedule[role] {
			grants = append(grants, models.Grant{
				Role:         string(role),
				Index:        i,
				Amount:       pair.Amount,
				UnlockOffset: pair.UnlockOffset,
			})
		}
	}
	return grants
}

// grantsToSchedule rebuilds a schedule from installment rows.
func grantsToSchedule(grants []models.Grant) (grant.Schedule, error) {
	if len(grants) == 0 {
		return nil, nil
	}

	sorted := make([]models.Grant, len(grants))
	copy(sorted, grants)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Role != sorted[j].Role {
			return sorted[i].Role < sorted[j].Role
		}
		return sorted[i].Index < sorted[j].Index
	})

	schedule := grant.Schedule{}
	for _, g := range sorted {
		role, err := grant.ParseRole(g.Role)
		if err != nil {
			return nil, fmt.Errorf("stored grant: %w", err)
		}
		schedule[role] = append(schedule[role], grant.GrantPair{Amount: g.Amount, UnlockOffset: g.UnlockOffset})
	}
	return schedule, nil
}

func toTaskResponse(task models.Task, schedule grant.Schedule, events []models.Event) api.TaskResponse {
	resp := api.TaskResponse{Task: task, Grants: schedule, Events: events}
	if len(schedule) > 0 {
		summary := grant.Summarize(schedule)
		resp.Summary = &summary
	}
	return resp
}
