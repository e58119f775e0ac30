package grant

// SplitAmount returns round(total*percent/100), rounding halves away from
// zero. The result is exact for |total| <= MaxAmount and 0 <= percent <= 100.
func SplitAmount(total, percent int64) int64 {
	product := total * percent
	if product < 0 {
		return -((-product + 50) / 100)
	}
	return (product + 50) / 100
}

// BuildVestingSchedule spreads total over ticks monthly installments that
// start unlocking one month after lockOffset. With zero ticks the whole
// amount unlocks at lockOffset. Callers keep ticks and lockOffset within
// MaxPeriodMonths; the schedule builders enforce it.
func BuildVestingSchedule(total, ticks, lockOffset int64) RoleGrant {
	if ticks <= 0 {
		return RoleGrant{{Amount: total, UnlockOffset: lockOffset}}
	}

	offsets := make([]int64, ticks)
	for i := int64(1); i <= ticks; i++ {
		offsets[i-1] = lockOffset + i*SecondsPerMonth
	}
	return BuildVestingOffsets(total, offsets)
}

// BuildVestingOffsets spreads total over the given unlock offsets. Each
// installment takes the ceiling of what is still unallocated divided by the
// installments left, so the remainder lands in the earliest ticks and the
// installments always sum to total.
func BuildVestingOffsets(total int64, offsets []int64) RoleGrant {
	if len(offsets) == 0 {
		return RoleGrant{{Amount: total, UnlockOffset: 0}}
	}

	grant := make(RoleGrant, 0, len(offsets))
	var accumulated int64
	for i, offset := range offsets {
		parts := int64(len(offsets) - i)
		amount := vestingPart(total, accumulated, parts)
		accumulated += amount
		grant = append(grant, GrantPair{Amount: amount, UnlockOffset: offset})
	}
	return grant
}

func vestingPart(total, accumulated, parts int64) int64 {
	remaining := total - accumulated
	if remaining <= 0 || parts <= 0 {
		return 0
	}
	part := (remaining + parts - 1) / parts
	if part > remaining {
		part = remaining
	}
	return part
}
