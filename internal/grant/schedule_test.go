package grant

import "testing"

func TestSplitAmount(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		percent int64
		want    int64
	}{
		{name: "sixty", total: 1000, percent: 60, want: 600},
		{name: "thirty", total: 1000, percent: 30, want: 300},
		{name: "ten", total: 1000, percent: 10, want: 100},
		{name: "half rounds up", total: 50, percent: 1, want: 1},
		{name: "below half rounds down", total: 49, percent: 1, want: 0},
		{name: "zero percent", total: 1000, percent: 0, want: 0},
		{name: "zero total", total: 0, percent: 50, want: 0},
		{name: "thirds", total: 100, percent: 33, want: 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitAmount(tt.total, tt.percent); got != tt.want {
				t.Fatalf("SplitAmount(%d, %d) = %d, want %d", tt.total, tt.percent, got, tt.want)
			}
		})
	}

	sum := SplitAmount(1000, 60) + SplitAmount(1000, 30) + SplitAmount(1000, 10)
	if sum != 1000 {
		t.Fatalf("expected splits to sum to 1000, got %d", sum)
	}
}

func TestBuildVestingScheduleNoVesting(t *testing.T) {
	got := BuildVestingSchedule(500, 0, 3*SecondsPerMonth)
	if len(got) != 1 {
		t.Fatalf("expected one installment, got %d", len(got))
	}
	if got[0].Amount != 500 || got[0].UnlockOffset != 3*SecondsPerMonth {
		t.Fatalf("unexpected installment: %+v", got[0])
	}
}

func TestBuildVestingScheduleThreeTicks(t *testing.T) {
	got := BuildVestingSchedule(600, 3, 0)
	if len(got) != 3 {
		t.Fatalf("expected 3 installments, got %d", len(got))
	}
	wantOffsets := []int64{2_592_000, 5_184_000, 7_776_000}
	for i, pair := range got {
		if pair.UnlockOffset != wantOffsets[i] {
			t.Fatalf("installment %d: expected offset %d, got %d", i, wantOffsets[i], pair.UnlockOffset)
		}
		if pair.Amount != 200 {
			t.Fatalf("installment %d: expected 200, got %d", i, pair.Amount)
		}
	}
	if got.Total() != 600 {
		t.Fatalf("expected total 600, got %d", got.Total())
	}
}

func TestBuildVestingScheduleFrontLoadsRemainder(t *testing.T) {
	got := BuildVestingSchedule(10, 3, SecondsPerMonth)
	want := []int64{4, 3, 3}
	for i, pair := range got {
		if pair.Amount != want[i] {
			t.Fatalf("installment %d: expected %d, got %d", i, want[i], pair.Amount)
		}
	}
	if got[0].UnlockOffset != 2*SecondsPerMonth {
		t.Fatalf("expected first unlock after lock plus one month, got %d", got[0].UnlockOffset)
	}
}

func TestBuildVestingScheduleStarvesLastTick(t *testing.T) {
	got := BuildVestingSchedule(2, 3, 0)
	if got.Total() != 2 {
		t.Fatalf("expected total 2, got %d", got.Total())
	}
	if got.Last().Amount != 0 {
		t.Fatalf("expected empty final installment, got %d", got.Last().Amount)
	}
}

func TestBuildVestingScheduleInvariants(t *testing.T) {
	totals := []int64{0, 1, 2, 7, 99, 100, 601, 1_000_003}
	ticks := []int64{0, 1, 2, 3, 5, 12, 60}
	locks := []int64{0, 1, 6}

	for _, total := range totals {
		for _, n := range ticks {
			for _, lockMonths := range locks {
				lock := lockMonths * SecondsPerMonth
				got := BuildVestingSchedule(total, n, lock)

				wantLen := n
				if n == 0 {
					wantLen = 1
				}
				if int64(len(got)) != wantLen {
					t.Fatalf("total=%d ticks=%d: expected %d installments, got %d", total, n, wantLen, len(got))
				}
				if got.Total() != total {
					t.Fatalf("total=%d ticks=%d: installments sum to %d", total, n, got.Total())
				}
				for i, pair := range got {
					if pair.Amount < 0 || pair.UnlockOffset < 0 {
						t.Fatalf("total=%d ticks=%d: negative installment %+v", total, n, pair)
					}
					if i > 0 && pair.UnlockOffset <= got[i-1].UnlockOffset {
						t.Fatalf("total=%d ticks=%d: offsets not increasing at %d", total, n, i)
					}
				}
			}
		}
	}
}

func TestBuildVestingOffsets(t *testing.T) {
	offsets := []int64{100, 200, 300, 400}
	got := BuildVestingOffsets(9, offsets)
	want := []int64{3, 2, 2, 2}
	for i, pair := range got {
		if pair.Amount != want[i] || pair.UnlockOffset != offsets[i] {
			t.Fatalf("installment %d: got %+v", i, pair)
		}
	}

	single := BuildVestingOffsets(42, nil)
	if len(single) != 1 || single[0].Amount != 42 || single[0].UnlockOffset != 0 {
		t.Fatalf("unexpected schedule without offsets: %+v", single)
	}
}
