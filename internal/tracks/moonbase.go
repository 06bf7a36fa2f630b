package tracks

import "time"

const (
	hour = time.Hour
	day  = 24 * time.Hour
)

// moonbase holds the tracks of the Moonbase Alpha test network.
var moonbase = File{Tracks: []TrackSpec{
	{
		ID:                 0,
		Name:               "root",
		MaxDeciding:        1,
		DecisionDeposit:    100,
		PreparePeriod:      3 * hour,
		DecisionPeriod:     14 * day,
		ConfirmPeriod:      3 * hour,
		MinEnactmentPeriod: 3 * hour,
		MinApproval:        Reciprocal(4, 14, Pct(80), Pct(50), Pct(100)),
		MinSupport:         Linear(14, 14, Pct(0), Pct(50)),
	},
	{
		ID:                 1,
		Name:               "whitelisted_caller",
		MaxDeciding:        10,
		DecisionDeposit:    10,
		PreparePeriod:      30 * time.Minute,
		DecisionPeriod:     14 * day,
		ConfirmPeriod:      10 * time.Minute,
		MinEnactmentPeriod: 30 * time.Minute,
		MinApproval:        Reciprocal(1, 14*24, Pct(96), Pct(50), Pct(100)),
		MinSupport:         Reciprocal(1, 14*24, Pct(4), Pct(2), Pct(50)),
	},
	{
		ID:                 10,
		Name:               "treasurer",
		MaxDeciding:        1,
		DecisionDeposit:    10,
		PreparePeriod:      1 * day,
		DecisionPeriod:     14 * day,
		ConfirmPeriod:      2 * day,
		MinEnactmentPeriod: 2 * day,
		MinApproval:        Linear(14, 14, Pct(50), Pct(100)),
		MinSupport:         Reciprocal(10, 14, Pct(10), Pct(0), Pct(50)),
	},
	{
		ID:                 11,
		Name:               "referendum_canceller",
		MaxDeciding:        100,
		DecisionDeposit:    5,
		PreparePeriod:      4 * BlockTime,
		DecisionPeriod:     14 * day,
		ConfirmPeriod:      1 * day,
		MinEnactmentPeriod: 10 * time.Minute,
		MinApproval:        Reciprocal(1, 14, Pct(96), Pct(50), Pct(100)),
		MinSupport:         Reciprocal(1, 14, Pct(1), Pct(0), Pct(50)),
	},
	{
		ID:                 12,
		Name:               "referendum_killer",
		MaxDeciding:        100,
		DecisionDeposit:    5,
		PreparePeriod:      4 * BlockTime,
		DecisionPeriod:     14 * day,
		ConfirmPeriod:      1 * day,
		MinEnactmentPeriod: 10 * time.Minute,
		MinApproval:        Reciprocal(1, 14, Pct(96), Pct(50), Pct(100)),
		MinSupport:         Reciprocal(7, 14, Pct(1), Pct(0), Pct(10)),
	},
	{
		ID:                 13,
		Name:               "small_spender",
		MaxDeciding:        5,
		DecisionDeposit:    300,
		PreparePeriod:      4 * BlockTime,
		DecisionPeriod:     14 * day,
		ConfirmPeriod:      12 * hour,
		MinEnactmentPeriod: 1 * day,
		MinApproval:        Linear(8, 14, Pct(50), Pct(100)),
		MinSupport:         Reciprocal(2, 14, Pct(1), Pct(0), Pct(10)),
	},
	{
		ID:                 14,
		Name:               "medium_spender",
		MaxDeciding:        5,
		DecisionDeposit:    3000,
		PreparePeriod:      4 * BlockTime,
		DecisionPeriod:     14 * day,
		ConfirmPeriod:      24 * hour,
		MinEnactmentPeriod: 1 * day,
		MinApproval:        Linear(10, 14, Pct(50), Pct(100)),
		MinSupport:         Reciprocal(4, 14, Pct(1), Pct(0), Pct(10)),
	},
	{
		ID:                 15,
		Name:               "big_spender",
		MaxDeciding:        5,
		DecisionDeposit:    30,
		PreparePeriod:      4 * BlockTime,
		DecisionPeriod:     14 * day,
		ConfirmPeriod:      48 * hour,
		MinEnactmentPeriod: 1 * day,
		MinApproval:        Linear(14, 14, Pct(50), Pct(100)),
		MinSupport:         Reciprocal(8, 14, Pct(1), Pct(0), Pct(10)),
	},
}}

// Moonbase returns the tracks of the Moonbase Alpha test network, in
// ascending ID order.
func Moonbase() ([]Track, error) {
	return moonbase.Build()
}

// MoonbaseFile returns the Moonbase tracks as a track file, suitable as a
// starting point for custom track files.
func MoonbaseFile() File {
	f := File{Tracks: make([]TrackSpec, len(moonbase.Tracks))}
	copy(f.Tracks, moonbase.Tracks)
	return f
}
