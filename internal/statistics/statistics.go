package statistics

import (
	"errors"
	"fmt"
	"math"

	"github.com/lox/setsim/set"
)

// NumBuckets covers every possible leftover count: 0, 3, ..., 81.
const NumBuckets = set.DeckSize/3 + 1

// ErrOutOfRange is returned when a leftover count cannot be bucketed.
var ErrOutOfRange = errors.New("leftover count out of range")

// TrialResult represents the outcome of dealing out one deck
type TrialResult struct {
	Trial      int   // Trial number in sequence
	Seed       int64 // RNG seed for this trial (for replay)
	Leftover   int   // Cards left when no set could be found
	SetsTaken  int   // Sets removed from the table
	MaxWindow  int   // Largest table reached
	Duplicates int   // Duplicate cards found when verifying the deck
}

// Statistics tracks the distribution of leftover cards across trials
type Statistics struct {
	Trials  int
	Buckets [NumBuckets]int // Indexed by leftover/3

	SumLeft  float64
	SumLeft2 float64 // Sum of squares for variance calculation

	SetsTaken      int // Total sets removed across all trials
	MaxWindow      int // Largest table seen in any trial
	DuplicateDecks int // Trials whose deck failed verification
}

// Bucket returns the histogram index for a leftover count.
func Bucket(leftover int) (int, error) {
	if leftover < 0 || leftover > set.DeckSize || leftover%3 != 0 {
		return 0, fmt.Errorf("%w: %d", ErrOutOfRange, leftover)
	}
	return leftover / 3, nil
}

// Add incorporates a new trial result into the statistics
func (s *Statistics) Add(result TrialResult) error {
	b, err := Bucket(result.Leftover)
	if err != nil {
		return fmt.Errorf("trial %d: %w", result.Trial, err)
	}

	left := float64(result.Leftover)
	s.Trials++
	s.Buckets[b]++
	s.SumLeft += left
	s.SumLeft2 += left * left
	s.SetsTaken += result.SetsTaken

	if result.MaxWindow > s.MaxWindow {
		s.MaxWindow = result.MaxWindow
	}
	if result.Duplicates > 0 {
		s.DuplicateDecks++
	}
	return nil
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Trials += other.Trials
	for i, n := range other.Buckets {
		s.Buckets[i] += n
	}
	s.SumLeft += other.SumLeft
	s.SumLeft2 += other.SumLeft2
	s.SetsTaken += other.SetsTaken
	s.DuplicateDecks += other.DuplicateDecks
	if other.MaxWindow > s.MaxWindow {
		s.MaxWindow = other.MaxWindow
	}
}

// Count returns how many trials ended with the given leftover count
func (s *Statistics) Count(leftover int) int {
	b, err := Bucket(leftover)
	if err != nil {
		return 0
	}
	return s.Buckets[b]
}

// Percent returns the share of trials in bucket b, as a percentage
func (s *Statistics) Percent(b int) float64 {
	if s.Trials == 0 || b < 0 || b >= NumBuckets {
		return 0
	}
	return float64(s.Buckets[b]) / float64(s.Trials) * 100
}

// HighestBucket returns the largest non-empty bucket index, or -1
func (s *Statistics) HighestBucket() int {
	for b := NumBuckets - 1; b >= 0; b-- {
		if s.Buckets[b] > 0 {
			return b
		}
	}
	return -1
}

// Mean returns the average leftover count
func (s *Statistics) Mean() float64 {
	if s.Trials == 0 {
		return 0
	}
	return s.SumLeft / float64(s.Trials)
}

// Variance returns the sample variance of leftover counts
func (s *Statistics) Variance() float64 {
	if s.Trials < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumLeft2 - float64(s.Trials)*mean*mean) / float64(s.Trials-1)
}

// StdDev returns the sample standard deviation of leftover counts
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Trials == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Trials))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median leftover count
func (s *Statistics) Median() int {
	if s.Trials == 0 {
		return 0
	}
	half := (s.Trials + 1) / 2
	seen := 0
	for b, n := range s.Buckets {
		seen += n
		if seen >= half {
			return b * 3
		}
	}
	return 0
}

// Validate checks that the histogram agrees with the trial count
func (s *Statistics) Validate() error {
	total := 0
	for _, n := range s.Buckets {
		total += n
	}
	if total != s.Trials {
		return fmt.Errorf("bucket total (%d) does not match trial count (%d)", total, s.Trials)
	}
	if s.DuplicateDecks > s.Trials {
		return fmt.Errorf("duplicate decks (%d) exceeds trial count (%d)", s.DuplicateDecks, s.Trials)
	}
	return nil
}
