package grant

// Summary aggregates a schedule for display.
type Summary struct {
	Totals       map[Role]int64 `json:"totals" yaml:"totals"`
	Reward       int64          `json:"reward" yaml:"reward"`
	VestingEnd   int64          `json:"vesting_end" yaml:"vesting_end"`
	Installments int            `json:"installments" yaml:"installments"`
}

// Summarize returns per-role totals, the overall reward, the latest unlock
// offset and the length of the longest installment list.
func Summarize(s Schedule) Summary {
	summary := Summary{Totals: make(map[Role]int64, len(s))}
	for role, grant := range s {
		total := grant.Total()
		summary.Totals[role] = total
		summary.Reward += total
		if len(grant) > summary.Installments {
			summary.Installments = len(grant)
		}
		for _, pair := range grant {
			if pair.UnlockOffset > summary.VestingEnd {
				summary.VestingEnd = pair.UnlockOffset
			}
		}
	}
	return summary
}
