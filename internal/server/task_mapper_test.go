package server

import (
	"reflect"
	"testing"

	"daotask/internal/grant"
	"daotask/internal/models"
)

func TestScheduleGrantsRoundTrip(t *testing.T) {
	schedule := grant.Schedule{
		grant.RoleManager: {{Amount: 5, UnlockOffset: 2_592_000}, {Amount: 5, UnlockOffset: 5_184_000}},
		grant.RoleAssign:  {{Amount: 30, UnlockOffset: 2_592_000}, {Amount: 30, UnlockOffset: 5_184_000}},
	}

	rows := scheduleToGrants(schedule)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].Role != "assign" || rows[0].Index != 0 || rows[2].Role != "manager" || rows[3].Index != 1 {
		t.Fatalf("rows not in canonical role order: %+v", rows)
	}

	reversed := []models.Grant{rows[3], rows[1], rows[2], rows[0]}
	back, err := grantsToSchedule(reversed)
	if err != nil {
		t.Fatalf("grants to schedule: %v", err)
	}
	if !reflect.DeepEqual(back, schedule) {
		t.Fatalf("expected %+v, got %+v", schedule, back)
	}
}

func TestGrantsToScheduleRejectsUnknownRole(t *testing.T) {
	if _, err := grantsToSchedule([]models.Grant{{Role: "owner", Amount: 1}}); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestToTaskResponseSummary(t *testing.T) {
	schedule := grant.Schedule{grant.RoleAssign: {{Amount: 600}}, grant.RoleReview: {{Amount: 400}}}
	resp := toTaskResponse(models.Task{ID: "tk-abc123"}, schedule, nil)
	if resp.Summary == nil || resp.Summary.Reward != 1000 {
		t.Fatalf("unexpected summary: %+v", resp.Summary)
	}

	bare := toTaskResponse(models.Task{ID: "tk-abc123"}, nil, nil)
	if bare.Summary != nil {
		t.Fatalf("expected no summary without grants")
	}
}
