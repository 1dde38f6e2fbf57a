package statistics

import (
	"math"
	"testing"
)

func TestZeroValueStatistics(t *testing.T) {
	var stats Statistics

	zeros := map[string]float64{
		"mean":       stats.Mean(),
		"variance":   stats.Variance(),
		"stddev":     stats.StdDev(),
		"stderr":     stats.StdError(),
		"median":     stats.Median(),
		"percentile": stats.Percentile(0.5),
		"win rate":   stats.WinRate(),
		"draw rate":  stats.DrawRate(),
		"mean turns": stats.MeanTurns(),
	}
	for name, got := range zeros {
		if got != 0 {
			t.Errorf("Zero-value statistics: %s = %f, want 0", name, got)
		}
	}
}

func TestSingleOutcome(t *testing.T) {
	var stats Statistics
	stats.Add(RoundOutcome{NetPoints: 24, Seed: 9, Seat: 2, Winner: 2, SelfDrawn: true, Turns: 41})

	if stats.Rounds != 1 || stats.Mean() != 24 || stats.Median() != 24 {
		t.Errorf("One outcome of 24 points: rounds=%d mean=%f median=%f",
			stats.Rounds, stats.Mean(), stats.Median())
	}
	if stats.Variance() != 0 {
		t.Errorf("Variance of a single outcome: want 0, got %f", stats.Variance())
	}
	if stats.SelfDrawnWins != 1 || stats.ClaimedWins != 0 {
		t.Errorf("Want one self-drawn win, got %d self-drawn and %d claimed",
			stats.SelfDrawnWins, stats.ClaimedWins)
	}
	if !stats.IsLedgerBalanced() {
		t.Error("Ledger out of balance")
	}
}

func TestOutcomeAccounting(t *testing.T) {
	var stats Statistics

	// A claimed win, a loss to a claim, a self-drawn win, a drawn round
	// and a loss to someone else's self-drawn win
	outcomes := []RoundOutcome{
		{NetPoints: 8, Seat: 0, Winner: 0, Turns: 30},
		{NetPoints: -8, Seat: 1, Winner: 3, Turns: 25},
		{NetPoints: 24, Seat: 2, Winner: 2, SelfDrawn: true, Turns: 50},
		{NetPoints: 0, Seat: 0, Winner: -1, Turns: 68},
		{NetPoints: -8, Seat: 1, Winner: 0, SelfDrawn: true, Turns: 12},
	}
	for _, o := range outcomes {
		stats.Add(o)
	}

	if got, want := stats.Mean(), 16.0/5; math.Abs(got-want) > 1e-9 {
		t.Errorf("Mean: want %f, got %f", want, got)
	}
	if got := stats.Median(); got != 0 {
		t.Errorf("Median of [-8 -8 0 8 24]: want 0, got %f", got)
	}

	if stats.SelfDrawnWins != 1 || stats.ClaimedWins != 1 || stats.DrawnRounds != 1 {
		t.Errorf("Win buckets: got %d self-drawn, %d claimed, %d drawn",
			stats.SelfDrawnWins, stats.ClaimedWins, stats.DrawnRounds)
	}
	if stats.SelfDrawnPoints != 16 || stats.ClaimedPoints != 0 || stats.DrawnPoints != 0 {
		t.Errorf("Point buckets: got %f self-drawn, %f claimed, %f drawn",
			stats.SelfDrawnPoints, stats.ClaimedPoints, stats.DrawnPoints)
	}

	seatRounds := [NumSeats]int{2, 2, 1, 0}
	for seat, want := range seatRounds {
		if got := stats.SeatResults[seat].Rounds; got != want {
			t.Errorf("Seat %d: want %d rounds, got %d", seat, want, got)
		}
	}

	if stats.MaxTurns != 68 || stats.LongRounds != 1 {
		t.Errorf("Turn tracking: got max %d and %d long rounds, want 68 and 1",
			stats.MaxTurns, stats.LongRounds)
	}
	if !stats.IsLedgerBalanced() {
		t.Error("Ledger out of balance")
	}
}

func TestPercentileInterpolation(t *testing.T) {
	var stats Statistics
	for _, points := range []float64{8, -16, 16, 0, -8} {
		stats.Add(RoundOutcome{NetPoints: points, Seat: 0, Winner: 0})
	}

	// Sorted settlements are -16 -8 0 8 16; 0.625 falls halfway
	// between ranks
	quartiles := []struct {
		p    float64
		want float64
	}{
		{0, -16},
		{0.25, -8},
		{0.5, 0},
		{0.625, 4},
		{0.75, 8},
		{1, 16},
	}
	for _, q := range quartiles {
		if got := stats.Percentile(q.p); math.Abs(got-q.want) > 1e-9 {
			t.Errorf("P%v: want %f, got %f", q.p*100, q.want, got)
		}
	}
}

func TestConfidenceInterval(t *testing.T) {
	var stats Statistics
	for _, points := range []float64{8, -16, 16, 0, -8} {
		stats.Add(RoundOutcome{NetPoints: points, Seat: 0, Winner: 0})
	}

	low, high := stats.ConfidenceInterval95()
	mean := stats.Mean()

	if math.Abs((low+high)/2-mean) > 1e-9 {
		t.Errorf("Interval [%f, %f] is not centred on the mean %f", low, high, mean)
	}
	if want := 2 * zCritical95 * stats.StdError(); math.Abs((high-low)-want) > 1e-9 {
		t.Errorf("Interval width: want %f, got %f", want, high-low)
	}
}

func TestSeatMeans(t *testing.T) {
	var stats Statistics

	stats.Add(RoundOutcome{NetPoints: 8, Seat: 0, Winner: 0})
	stats.Add(RoundOutcome{NetPoints: 16, Seat: 0, Winner: 0})
	stats.Add(RoundOutcome{NetPoints: -8, Seat: 3, Winner: 1})

	if mean := stats.SeatMean(0); math.Abs(mean-12.0) > 1e-9 {
		t.Errorf("Seat 0 mean: want 12.0, got %f", mean)
	}
	if mean := stats.SeatMean(3); math.Abs(mean+8.0) > 1e-9 {
		t.Errorf("Seat 3 mean: want -8.0, got %f", mean)
	}
	if mean := stats.SeatMean(1); mean != 0 {
		t.Errorf("Seat 1 played no rounds: want mean 0, got %f", mean)
	}
	if mean := stats.SeatMean(7); mean != 0 {
		t.Errorf("Out-of-range seat: want mean 0, got %f", mean)
	}
}

func TestWinAndDrawRates(t *testing.T) {
	var stats Statistics

	stats.Add(RoundOutcome{NetPoints: 8, Seat: 0, Winner: 0, Turns: 20})
	stats.Add(RoundOutcome{NetPoints: 0, Seat: 0, Winner: -1, Turns: 70})
	stats.Add(RoundOutcome{NetPoints: -8, Seat: 0, Winner: 2, Turns: 33})
	stats.Add(RoundOutcome{NetPoints: 24, Seat: 0, Winner: 0, SelfDrawn: true, Turns: 45})

	if rate := stats.WinRate(); math.Abs(rate-0.5) > 1e-9 {
		t.Errorf("Win rate: want 0.5, got %f", rate)
	}
	if rate := stats.DrawRate(); math.Abs(rate-0.25) > 1e-9 {
		t.Errorf("Draw rate: want 0.25, got %f", rate)
	}
	if mean := stats.MeanTurns(); math.Abs(mean-42.0) > 1e-9 {
		t.Errorf("Mean turns: want 42.0, got %f", mean)
	}
}

func TestValidateCatchesCorruption(t *testing.T) {
	var stats Statistics
	stats.Add(RoundOutcome{NetPoints: 8, Seat: 1, Winner: 1, Turns: 30})
	stats.Add(RoundOutcome{NetPoints: 0, Seat: 2, Winner: -1, Turns: 65})

	if err := stats.Validate(); err != nil {
		t.Errorf("Want valid statistics, got: %v", err)
	}

	// Corrupt the ledger and expect validation to fail
	stats.AllPoints += 5
	if err := stats.Validate(); err == nil {
		t.Error("Want a validation error for an unbalanced ledger")
	}
	stats.AllPoints -= 5

	// Points moving in a drawn round is an accounting violation
	var broken Statistics
	broken.Add(RoundOutcome{NetPoints: 8, Seat: 0, Winner: -1, Turns: 70})
	if err := broken.Validate(); err == nil {
		t.Error("Want a validation error when a drawn round moves points")
	}

	// Empty statistics are not valid
	var empty Statistics
	if err := empty.Validate(); err == nil {
		t.Error("Want a validation error for empty statistics")
	}
}
