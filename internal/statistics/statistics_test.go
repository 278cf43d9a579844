package statistics

import (
	"errors"
	"math"
	"testing"
)

func TestNewStatistics(t *testing.T) {
	var stats Statistics

	if stats.Mean() != 0 {
		t.Errorf("Initial mean should be 0, got %f", stats.Mean())
	}
	if stats.StdDev() != 0 {
		t.Errorf("Initial StdDev should be 0, got %f", stats.StdDev())
	}
	if stats.HighestBucket() != -1 {
		t.Errorf("Initial highest bucket should be -1, got %d", stats.HighestBucket())
	}
	if stats.Percent(0) != 0 {
		t.Errorf("Initial percent should be 0, got %f", stats.Percent(0))
	}
}

func TestStatisticsAdd(t *testing.T) {
	var stats Statistics

	results := []TrialResult{
		{Trial: 1, Leftover: 0, SetsTaken: 27, MaxWindow: 15},
		{Trial: 2, Leftover: 6, SetsTaken: 25, MaxWindow: 18},
		{Trial: 3, Leftover: 6, SetsTaken: 25, MaxWindow: 12},
		{Trial: 4, Leftover: 12, SetsTaken: 23, MaxWindow: 15, Duplicates: 1},
	}
	for _, r := range results {
		if err := stats.Add(r); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	if stats.Trials != 4 {
		t.Errorf("Expected 4 trials, got %d", stats.Trials)
	}
	if stats.Count(6) != 2 {
		t.Errorf("Expected 2 trials with 6 left, got %d", stats.Count(6))
	}
	if stats.Percent(2) != 50 {
		t.Errorf("Expected 50%% in bucket 2, got %f", stats.Percent(2))
	}
	if stats.Mean() != 6 {
		t.Errorf("Expected mean 6, got %f", stats.Mean())
	}
	if stats.Median() != 6 {
		t.Errorf("Expected median 6, got %d", stats.Median())
	}
	if stats.HighestBucket() != 4 {
		t.Errorf("Expected highest bucket 4, got %d", stats.HighestBucket())
	}
	if stats.MaxWindow != 18 {
		t.Errorf("Expected max window 18, got %d", stats.MaxWindow)
	}
	if stats.SetsTaken != 100 {
		t.Errorf("Expected 100 sets taken, got %d", stats.SetsTaken)
	}
	if stats.DuplicateDecks != 1 {
		t.Errorf("Expected 1 duplicate deck, got %d", stats.DuplicateDecks)
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	// Sample variance of {0, 6, 6, 12} is 24.
	if math.Abs(stats.Variance()-24) > 1e-9 {
		t.Errorf("Expected variance 24, got %f", stats.Variance())
	}
	low, high := stats.ConfidenceInterval95()
	if low >= stats.Mean() || high <= stats.Mean() {
		t.Errorf("CI [%f, %f] should contain mean %f", low, high, stats.Mean())
	}
}

func TestStatisticsAddOutOfRange(t *testing.T) {
	tests := []int{-3, 1, 84, 82}
	for _, leftover := range tests {
		var stats Statistics
		err := stats.Add(TrialResult{Trial: 1, Leftover: leftover})
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Add(%d): expected ErrOutOfRange, got %v", leftover, err)
		}
		if stats.Trials != 0 {
			t.Errorf("Add(%d) should not count a rejected trial", leftover)
		}
	}
}

func TestBucketCoversFullDeck(t *testing.T) {
	b, err := Bucket(81)
	if err != nil {
		t.Fatalf("Bucket(81) failed: %v", err)
	}
	if b != NumBuckets-1 {
		t.Errorf("Expected last bucket %d, got %d", NumBuckets-1, b)
	}
}

func TestStatisticsMerge(t *testing.T) {
	var a, b Statistics
	_ = a.Add(TrialResult{Leftover: 3, MaxWindow: 12})
	_ = b.Add(TrialResult{Leftover: 9, MaxWindow: 15})
	_ = b.Add(TrialResult{Leftover: 9, MaxWindow: 15, Duplicates: 2})

	a.Merge(&b)
	if a.Trials != 3 {
		t.Errorf("Expected 3 trials, got %d", a.Trials)
	}
	if a.Count(9) != 2 || a.Count(3) != 1 {
		t.Errorf("Unexpected buckets after merge: %v", a.Buckets)
	}
	if a.MaxWindow != 15 {
		t.Errorf("Expected max window 15, got %d", a.MaxWindow)
	}
	if a.DuplicateDecks != 1 {
		t.Errorf("Expected 1 duplicate deck, got %d", a.DuplicateDecks)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestValidateDetectsMismatch(t *testing.T) {
	var stats Statistics
	_ = stats.Add(TrialResult{Leftover: 0})
	stats.Buckets[3]++
	if err := stats.Validate(); err == nil {
		t.Error("Expected validation error")
	}
}
