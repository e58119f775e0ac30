package grant

import "fmt"

// TaskConfig describes the reward of a single task.
type TaskConfig struct {
	TotalCost      int64 `json:"cost" yaml:"cost"`
	PercentAssign  int64 `json:"assign" yaml:"assign"`
	PercentReview  int64 `json:"review" yaml:"review"`
	PercentManager int64 `json:"manager" yaml:"manager"`
	LockMonths     int64 `json:"lock" yaml:"lock"`
	VestingMonths  int64 `json:"vesting" yaml:"vesting"`
}

// MilestoneConfig describes a milestone: a manager reward plus a budget
// reserved for the milestone's subtasks.
type MilestoneConfig struct {
	ManagerReward int64 `json:"manager_reward" yaml:"manager_reward"`
	Budget        int64 `json:"budget" yaml:"budget"`
	LockMonths    int64 `json:"lock" yaml:"lock"`
	VestingMonths int64 `json:"vesting" yaml:"vesting"`
}

// SubtaskConfig describes a subtask paid from its milestone's budget. The
// unlock offsets come from the milestone's subtask pool.
type SubtaskConfig struct {
	Amount         int64   `json:"amount" yaml:"amount"`
	PercentAssign  int64   `json:"assign" yaml:"assign"`
	PercentReview  int64   `json:"review" yaml:"review"`
	PercentManager int64   `json:"manager" yaml:"manager"`
	Offsets        []int64 `json:"offsets,omitempty" yaml:"offsets,omitempty"`
}

type roleShare struct {
	role    Role
	percent int64
}

// BuildGrantSchedule computes the assign, review and manager grants of a
// task.
func BuildGrantSchedule(cfg TaskConfig) (Schedule, error) {
	fields := []struct {
		name  string
		value int64
	}{
		{"cost", cfg.TotalCost},
		{"assign", cfg.PercentAssign},
		{"review", cfg.PercentReview},
		{"manager", cfg.PercentManager},
		{"lock", cfg.LockMonths},
		{"vesting", cfg.VestingMonths},
	}
	for _, f := range fields {
		if f.value < 0 {
			return nil, invalidValue(f.name, f.value, "must not be negative")
		}
	}
	if err := checkAmount("cost", cfg.TotalCost); err != nil {
		return nil, err
	}
	if err := checkPeriods(cfg.LockMonths, cfg.VestingMonths); err != nil {
		return nil, err
	}

	shares := []roleShare{
		{RoleAssign, cfg.PercentAssign},
		{RoleReview, cfg.PercentReview},
		{RoleManager, cfg.PercentManager},
	}
	if err := checkPercentSum(shares); err != nil {
		return nil, err
	}

	lockOffset := cfg.LockMonths * SecondsPerMonth
	schedule := make(Schedule, len(shares))
	for _, share := range shares {
		total := SplitAmount(cfg.TotalCost, share.percent)
		schedule[share.role] = BuildVestingSchedule(total, cfg.VestingMonths, lockOffset)
	}

	if cfg.VestingMonths > 0 {
		if err := checkLastInstallments(schedule); err != nil {
			return nil, err
		}
	}
	return schedule, nil
}

// BuildMilestoneSchedule computes the manager and subtask-pool grants of a
// milestone.
func BuildMilestoneSchedule(cfg MilestoneConfig) (Schedule, error) {
	if cfg.ManagerReward <= 0 {
		return nil, invalidValue("manager_reward", cfg.ManagerReward, "should be greater than 0")
	}
	if cfg.Budget <= 0 {
		return nil, invalidValue("budget", cfg.Budget, "should be greater than 0")
	}
	if cfg.LockMonths < 0 {
		return nil, invalidValue("lock", cfg.LockMonths, "must not be negative")
	}
	if cfg.VestingMonths < 0 {
		return nil, invalidValue("vesting", cfg.VestingMonths, "must not be negative")
	}
	if err := checkAmount("manager_reward", cfg.ManagerReward); err != nil {
		return nil, err
	}
	if cfg.Budget > MaxAmount-cfg.ManagerReward {
		return nil, invalidValue("budget", cfg.Budget, fmt.Sprintf("plus manager_reward must be at most %d", MaxAmount))
	}
	if err := checkPeriods(cfg.LockMonths, cfg.VestingMonths); err != nil {
		return nil, err
	}

	lockOffset := cfg.LockMonths * SecondsPerMonth
	schedule := Schedule{
		RoleManager: BuildVestingSchedule(cfg.ManagerReward, cfg.VestingMonths, lockOffset),
		RoleSubtask: BuildVestingSchedule(cfg.Budget, cfg.VestingMonths, lockOffset),
	}
	if cfg.VestingMonths > 0 {
		if err := checkLastInstallments(schedule); err != nil {
			return nil, err
		}
	}
	return schedule, nil
}

// BuildSubtaskSchedule distributes a subtask amount among assign, review and
// manager along the milestone's unlock offsets.
func BuildSubtaskSchedule(cfg SubtaskConfig) (Schedule, error) {
	shares := []roleShare{
		{RoleAssign, cfg.PercentAssign},
		{RoleReview, cfg.PercentReview},
		{RoleManager, cfg.PercentManager},
	}
	if err := checkPercentSum(shares); err != nil {
		return nil, err
	}
	if cfg.Amount <= 0 {
		return nil, invalidValue("amount", cfg.Amount, "should be greater than 0")
	}
	if err := checkAmount("amount", cfg.Amount); err != nil {
		return nil, err
	}
	for _, share := range shares {
		if share.percent < 0 {
			return nil, invalidValue(string(share.role), share.percent, "must not be negative")
		}
	}
	for _, offset := range cfg.Offsets {
		if offset < 0 {
			return nil, invalidValue("offsets", offset, "must not be negative")
		}
	}

	schedule := make(Schedule, len(shares))
	for _, share := range shares {
		total := SplitAmount(cfg.Amount, share.percent)
		if (share.percent > 0) != (total > 0) {
			return nil, badDistribution(share.role, share.percent, total)
		}
		schedule[share.role] = BuildVestingOffsets(total, cfg.Offsets)
	}
	return schedule, nil
}

func checkAmount(field string, value int64) error {
	if value > MaxAmount {
		return invalidValue(field, value, fmt.Sprintf("must be at most %d", MaxAmount))
	}
	return nil
}

func checkPeriods(lockMonths, vestingMonths int64) error {
	if lockMonths > MaxPeriodMonths {
		return invalidValue("lock", lockMonths, fmt.Sprintf("must be at most %d months", MaxPeriodMonths))
	}
	if vestingMonths > MaxPeriodMonths {
		return invalidValue("vesting", vestingMonths, fmt.Sprintf("must be at most %d months", MaxPeriodMonths))
	}
	return nil
}

func checkPercentSum(shares []roleShare) error {
	var sum int64
	for _, share := range shares {
		sum += share.percent
	}
	if sum != 100 {
		return percentSum(sum)
	}
	return nil
}

func checkLastInstallments(schedule Schedule) error {
	for _, role := range schedule.Roles() {
		if schedule[role].Last().Amount == 0 {
			return incompleteVesting(role)
		}
	}
	return nil
}
