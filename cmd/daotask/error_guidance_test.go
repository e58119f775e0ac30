package main

import (
	"fmt"
	"net"
	"testing"

	"daotask/internal/api"
	"daotask/internal/grant"
)

func TestFormatCLIError(t *testing.T) {
	_, vestingErr := grant.BuildGrantSchedule(grant.TaskConfig{
		TotalCost: 1, PercentAssign: 1, PercentReview: 1, PercentManager: 98, VestingMonths: 60,
	})
	if vestingErr == nil {
		t.Fatal("expected incomplete vesting error")
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "network",
			err:  &net.DNSError{Err: "dial tcp: connection refused", Name: "127.0.0.1", IsTemporary: true},
			want: "hint: start local server manually with: daotask srv",
		},
		{
			name: "unknown service",
			err:  &api.APIError{Status: 404, Message: "api error: 404 Not Found"},
			want: "hint: verify DAOTASK_API_URL points to a daotask server.",
		},
		{
			name: "auth",
			err:  &api.APIError{Status: 401, Code: "unauthorized", ErrorCode: 3001, Message: "unauthorized"},
			want: "hint: verify DAOTASK_API_TOKEN matches the server's api_token_hash.",
		},
		{
			name: "internal",
			err:  &api.APIError{Status: 500, Code: "internal", ErrorCode: 4001, Message: "internal error"},
			want: "hint: server returned an internal error; check server logs for details.",
		},
		{
			name: "budget",
			err:  &api.APIError{Status: 409, Code: "conflict", ErrorCode: 2103, Message: "insufficient budget"},
			want: "hint: the milestone balance is too low; check it with: daotask task show <milestone-id>",
		},
		{
			name: "server side grant validation",
			err:  &api.APIError{Status: 400, Code: "invalid_argument", ErrorCode: 1102, Message: "percent sum"},
			want: "hint: preview the schedule locally with: daotask grant --cost ... --assign ... --vesting ...",
		},
		{
			name: "local grant validation",
			err:  fmt.Errorf("preview: %w", vestingErr),
			want: "hint: raise the cost or shorten --vesting so every role gets a non-zero last installment.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := formatCLIError(tt.err)
			if len(lines) == 0 || lines[0] != tt.err.Error() {
				t.Fatalf("expected error message first, got %v", lines)
			}
			if !containsLine(lines, tt.want) {
				t.Fatalf("expected %q in %v", tt.want, lines)
			}
		})
	}
}

func TestFormatCLIError_Nil(t *testing.T) {
	if lines := formatCLIError(nil); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}

func containsLine(lines []string, expected string) bool {
	for _, line := range lines {
		if line == expected {
			return true
		}
	}
	return false
}
