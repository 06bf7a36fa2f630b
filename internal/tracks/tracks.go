// Package tracks describes governance tracks: named decision windows with an
// approval and a support curve each.
package tracks

import (
	"fmt"
	"strings"
	"time"

	"honnef.co/go/govcurve"
)

// BlockTime is the duration of one block.
const BlockTime = 12 * time.Second

// Block counts of common durations.
const (
	Minutes uint32 = uint32(time.Minute / BlockTime)
	Hours          = Minutes * 60
	Days           = Hours * 24
	Weeks          = Days * 7
)

// Blocks converts d to a number of blocks, rounding down.
func Blocks(d time.Duration) uint32 {
	return uint32(d / BlockTime)
}

// CurveType selects one of the two curves of a track.
type CurveType int

const (
	// Approval is the share of approval vote-weight (after adjustment for
	// conviction) against all vote-weight.
	Approval CurveType = iota + 1
	// Support is the number of approving votes (ignoring conviction)
	// compared to the total possible turnout.
	Support
)

func (ty CurveType) String() string {
	switch ty {
	case Approval:
		return "Approval"
	case Support:
		return "Support"
	default:
		return fmt.Sprintf("CurveType(%d)", int(ty))
	}
}

// YLabel describes what the threshold of a curve of this type measures.
func (ty CurveType) YLabel() string {
	switch ty {
	case Approval:
		return "% of Votes in Favor / All Votes in This Referendum"
	case Support:
		return "% of Votes in This Referendum / Total Possible Turnout"
	default:
		return ""
	}
}

// ParseCurveType parses "approval" or "support", ignoring case.
func ParseCurveType(s string) (CurveType, error) {
	switch strings.ToLower(s) {
	case "approval":
		return Approval, nil
	case "support":
		return Support, nil
	default:
		return 0, fmt.Errorf("unknown curve type %q", s)
	}
}

// Track is a class of referenda that share a decision window and thresholds.
type Track struct {
	ID   uint16
	Name string
	// MaxDeciding limits the number of referenda that can be decided at once.
	MaxDeciding     uint32
	DecisionDeposit uint64
	// Periods are in blocks.
	PreparePeriod      uint32
	DecisionPeriod     uint32
	ConfirmPeriod      uint32
	MinEnactmentPeriod uint32

	MinApproval govcurve.Curve
	MinSupport  govcurve.Curve
}

// Curve returns the track's curve of the given type.
func (t Track) Curve(ty CurveType) govcurve.Curve {
	switch ty {
	case Approval:
		return t.MinApproval
	case Support:
		return t.MinSupport
	default:
		panic("unreachable")
	}
}

// Find returns the track with the given ID.
func Find(trs []Track, id uint16) (Track, bool) {
	for _, t := range trs {
		if t.ID == id {
			return t, true
		}
	}
	return Track{}, false
}
