package statistics

import (
	"fmt"
	"math"
	"sort"
)

// NumSeats is the number of seats at a table
const NumSeats = 4

// longRoundTurns is the turn count at which a round is considered long
const longRoundTurns = 60

// RoundOutcome represents the outcome of a single round from the focal
// seat's perspective
type RoundOutcome struct {
	NetPoints float64 // Net points won or lost by the focal seat
	Seed      int64   // RNG seed for this round (for replay)
	Seat      int     // The focal seat (0-3)
	Winner    int     // Winning seat, or -1 for a drawn round
	SelfDrawn bool    // Whether the win came from the wall
	Turns     int     // Turn count when the round ended
}

// SeatStats tracks statistics for the focal player at a specific seat
type SeatStats struct {
	Rounds     int
	SumPoints  float64
	SumPoints2 float64
}

// Statistics tracks comprehensive simulation statistics
type Statistics struct {
	Rounds     int
	SumPoints  float64
	SumPoints2 float64   // Sum of squares for variance calculation
	Values     []float64 // Store all values for median/percentile calculation

	// Round outcomes, tracked for ALL results rather than only wins
	SelfDrawnWins   int     // Rounds the focal seat won from the wall
	ClaimedWins     int     // Rounds the focal seat won on a discard
	DrawnRounds     int     // Rounds that ended with an exhausted wall
	SelfDrawnPoints float64 // Points from self-drawn rounds (wins AND losses)
	ClaimedPoints   float64 // Points from claimed rounds (wins AND losses)
	DrawnPoints     float64 // Points from drawn rounds, always zero when sound
	AllPoints       float64 // Total points for sanity check

	// Seat analytics
	SeatResults [NumSeats]SeatStats

	// Round length analytics
	SumTurns   int
	MaxTurns   int // Longest round observed (in turns)
	LongRounds int // Rounds lasting at least 60 turns
}

// Mean returns the arithmetic mean of all results in points per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumPoints / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumPoints2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// zCritical95 is the normal z-score bounding a 95% interval
const zCritical95 = 1.96

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := zCritical95 * s.StdError()
	return mean - margin, mean + margin
}

// WinRate returns the fraction of rounds won by the focal seat
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.SelfDrawnWins+s.ClaimedWins) / float64(s.Rounds)
}

// DrawRate returns the fraction of rounds that ended with an exhausted
// wall
func (s *Statistics) DrawRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.DrawnRounds) / float64(s.Rounds)
}

// MeanTurns returns the average round length in turns
func (s *Statistics) MeanTurns() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.SumTurns) / float64(s.Rounds)
}

// Add incorporates a new round outcome into the statistics
func (s *Statistics) Add(outcome RoundOutcome) {
	points := outcome.NetPoints
	s.Rounds++
	s.SumPoints += points
	s.SumPoints2 += points * points
	s.Values = append(s.Values, points)

	// Track how the focal seat's wins arrived
	if outcome.Winner == outcome.Seat {
		if outcome.SelfDrawn {
			s.SelfDrawnWins++
		} else {
			s.ClaimedWins++
		}
	}

	// Track ALL results (wins and losses) in the matching bucket
	switch {
	case outcome.Winner < 0:
		s.DrawnRounds++
		s.DrawnPoints += points
	case outcome.SelfDrawn:
		s.SelfDrawnPoints += points
	default:
		s.ClaimedPoints += points
	}
	s.AllPoints += points // Total for sanity check

	// Track by seat
	seat := outcome.Seat
	if seat >= 0 && seat < NumSeats {
		s.SeatResults[seat].Rounds++
		s.SeatResults[seat].SumPoints += points
		s.SeatResults[seat].SumPoints2 += points * points
	}

	// Track round lengths
	s.SumTurns += outcome.Turns
	if outcome.Turns > s.MaxTurns {
		s.MaxTurns = outcome.Turns
	}
	if outcome.Turns >= longRoundTurns {
		s.LongRounds++
	}
}

// sortedValues returns the recorded results in ascending order
func (s *Statistics) sortedValues() []float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return sorted
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sortedValues()

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	sorted := s.sortedValues()
	if len(sorted) == 0 {
		return 0
	}

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// SeatMean returns the mean result for a specific seat (0-3)
func (s *Statistics) SeatMean(seat int) float64 {
	if seat < 0 || seat >= NumSeats {
		return 0
	}
	ss := s.SeatResults[seat]
	if ss.Rounds == 0 {
		return 0
	}
	return ss.SumPoints / float64(ss.Rounds)
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllPoints-s.SelfDrawnPoints-s.ClaimedPoints-s.DrawnPoints) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	// Check ledger balance
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllPoints=%.6f, SelfDrawnPoints=%.6f, ClaimedPoints=%.6f, DrawnPoints=%.6f",
			s.AllPoints, s.SelfDrawnPoints, s.ClaimedPoints, s.DrawnPoints)
	}

	// Drawn rounds move no points between seats
	if math.Abs(s.DrawnPoints) > 1e-6 {
		return fmt.Errorf("drawn rounds moved %.6f points, want 0", s.DrawnPoints)
	}

	// Check that rounds count is positive
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	// Check that values array matches rounds count
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	// Check that wins and draws don't exceed total rounds
	totalWins := s.SelfDrawnWins + s.ClaimedWins
	if totalWins+s.DrawnRounds > s.Rounds {
		return fmt.Errorf("wins (%d) plus drawn rounds (%d) exceeds total rounds (%d)",
			totalWins, s.DrawnRounds, s.Rounds)
	}

	// Check seat data consistency
	totalSeatRounds := 0
	for seat := 0; seat < NumSeats; seat++ {
		totalSeatRounds += s.SeatResults[seat].Rounds
	}
	if totalSeatRounds != s.Rounds {
		return fmt.Errorf("seat rounds total (%d) does not match total rounds (%d)",
			totalSeatRounds, s.Rounds)
	}

	return nil
}
