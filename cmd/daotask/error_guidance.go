package main

import (
	"context"
	"errors"
	"net"

	"daotask/internal/api"
	"daotask/internal/grant"
)

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}

	if verr, ok := grant.AsValidationError(err); ok {
		lines = append(lines, grantHint(verr.Kind))
		return uniqueLines(lines)
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case "unauthorized":
			lines = append(lines, "hint: verify DAOTASK_API_TOKEN matches the server's api_token_hash.")
		case "conflict":
			if apiErr.ErrorCode == 2103 {
				lines = append(lines, "hint: the milestone balance is too low; check it with: daotask task show <milestone-id>")
			}
		}
		if apiErr.IsValidation() {
			lines = append(lines, "hint: preview the schedule locally with: daotask grant --cost ... --assign ... --vesting ...")
		}
		if apiErr.Code == "" {
			lines = append(lines, "hint: verify DAOTASK_API_URL points to a daotask server.")
		}
		if apiErr.Status >= 500 {
			lines = append(lines, "hint: server returned an internal error; check server logs for details.")
		}
		return uniqueLines(lines)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		lines = append(lines, "hint: request timed out; check server health or increase DAOTASK_HTTP_TIMEOUT.")
		return uniqueLines(lines)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		lines = append(lines,
			"hint: ensure a daotask server is running at DAOTASK_API_URL.",
			"hint: start local server manually with: daotask srv",
		)
	}

	return uniqueLines(lines)
}

func grantHint(kind grant.ValidationKind) string {
	switch kind {
	case grant.KindIncompleteVesting:
		return "hint: raise the cost or shorten --vesting so every role gets a non-zero last installment."
	case grant.KindPercentSum:
		return "hint: --assign, --review and --manager must add up to 100."
	case grant.KindDistribution:
		return "hint: a role with a percentage must receive at least one token; raise the amount."
	default:
		return ""
	}
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
