package controllers

import (
	"testing"
	"time"
)

func TestPeriodStep(t *testing.T) {
	tests := []struct {
		name   string
		period string
		exp    time.Duration
	}{
		{
			name:   "weekly",
			period: "weekly",
			exp:    7 * 24 * time.Hour,
		},
		{
			name:   "monthly",
			period: "monthly",
			exp:    30 * 24 * time.Hour,
		},
		{
			name:   "yearly",
			period: "yearly",
			exp:    365 * 24 * time.Hour,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			step, err := periodStep(tc.period)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if step != tc.exp {
				t.Fatalf("expected %v, got %v", tc.exp, step)
			}
		})
	}
}

func TestPeriodStepInvalid(t *testing.T) {
	for _, period := range []string{"", "daily", "Weekly", "month"} {
		if _, err := periodStep(period); err == nil {
			t.Fatalf("expected error for period %q", period)
		}
	}
}

func TestWalkBuckets(t *testing.T) {
	day := 24 * time.Hour
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		step     time.Duration
		expCount int
	}{
		{
			name:     "exact multiple still includes end boundary",
			start:    base,
			end:      base.Add(14 * day),
			step:     7 * day,
			expCount: 3,
		},
		{
			name:     "partial final window yields a bucket",
			start:    base,
			end:      base.Add(10 * day),
			step:     7 * day,
			expCount: 2,
		},
		{
			name:     "single day range",
			start:    base,
			end:      base,
			step:     7 * day,
			expCount: 1,
		},
		{
			name:     "start after end yields nothing",
			start:    base.Add(day),
			end:      base,
			step:     7 * day,
			expCount: 0,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			buckets := walkBuckets(tc.start, tc.end, tc.step)
			if len(buckets) != tc.expCount {
				t.Fatalf("expected %d buckets, got %d", tc.expCount, len(buckets))
			}
			for i, b := range buckets {
				if !b.End.Equal(b.Start.Add(tc.step)) {
					t.Fatalf("bucket %d is not step-width: %v -> %v", i, b.Start, b.End)
				}
				if i > 0 && !b.Start.Equal(buckets[i-1].End) {
					t.Fatalf("bucket %d does not abut its predecessor", i)
				}
			}
		})
	}
}

func TestBuildStatisticsWorkbook(t *testing.T) {
	membership := []memberBucketRow{
		{PeriodStart: "2025-01-01", PeriodEnd: "2025-01-31", MemberCount: 12, NewMembers: 3, CancelledMembers: 1},
	}
	revenue := []revenueBucketRow{
		{PeriodStart: "2025-01-01", PeriodEnd: "2025-01-31", TotalRevenue: 250.5, PaymentCount: 4},
	}

	f := buildStatisticsWorkbook(membership, revenue)
	defer f.Close()

	checks := []struct {
		sheet, cell, exp string
	}{
		{"Membership", "A1", "Period Start"},
		{"Membership", "A2", "2025-01-01"},
		{"Membership", "C2", "12"},
		{"Membership", "E2", "1"},
		{"Revenue", "A1", "Period Start"},
		{"Revenue", "C2", "250.5"},
		{"Revenue", "D2", "4"},
	}
	for _, tc := range checks {
		got, err := f.GetCellValue(tc.sheet, tc.cell)
		if err != nil {
			t.Fatalf("%s!%s: unexpected error: %v", tc.sheet, tc.cell, err)
		}
		if got != tc.exp {
			t.Fatalf("%s!%s: expected %q, got %q", tc.sheet, tc.cell, tc.exp, got)
		}
	}

	// the default sheet is renamed, not kept alongside
	if idx, _ := f.GetSheetIndex("Sheet1"); idx >= 0 {
		t.Fatal("default sheet should have been renamed to Membership")
	}
}

func TestStatsCacheKeyStable(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	key := statsCacheKey("revenue", "monthly", start, end)
	exp := "stats:revenue:monthly:2025-03-01:2025-06-01"
	if key != exp {
		t.Fatalf("expected %q, got %q", exp, key)
	}

	// Same inputs must always build the same key so cached bytes replay.
	if again := statsCacheKey("revenue", "monthly", start, end); again != key {
		t.Fatalf("key not stable: %q vs %q", key, again)
	}

	if statsCacheKey("members", "monthly", start, end) == key {
		t.Fatalf("different metrics must not share a key")
	}
	if statsCacheKey("revenue", "weekly", start, end) == key {
		t.Fatalf("different periods must not share a key")
	}
}
