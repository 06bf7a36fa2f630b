package tracks

import (
	"fmt"
	"strings"
)

// TimeUnit is the unit of the x axis a decision window is sampled in.
type TimeUnit int

const (
	Day TimeUnit = iota + 1
	Hour
	Minute
	Second
)

func (u TimeUnit) String() string {
	switch u {
	case Day:
		return "Day"
	case Hour:
		return "Hour"
	case Minute:
		return "Minute"
	case Second:
		return "Second"
	default:
		return fmt.Sprintf("TimeUnit(%d)", int(u))
	}
}

// PerDay returns how many units make up a day.
func (u TimeUnit) PerDay() uint32 {
	switch u {
	case Day:
		return 1
	case Hour:
		return 24
	case Minute:
		return 24 * 60
	case Second:
		return 24 * 60 * 60
	default:
		panic("unreachable")
	}
}

// ParseTimeUnit parses the singular name of a unit, ignoring case.
func ParseTimeUnit(s string) (TimeUnit, error) {
	switch strings.ToLower(s) {
	case "day":
		return Day, nil
	case "hour":
		return Hour, nil
	case "minute":
		return Minute, nil
	case "second":
		return Second, nil
	default:
		return 0, fmt.Errorf("unknown time unit %q", s)
	}
}

// TimeLength is the length of a decision window in some unit.
type TimeLength struct {
	Unit   TimeUnit
	Length uint32
}

// Days returns the number of whole days in l.
func (l TimeLength) Days() uint32 {
	return l.Length / l.Unit.PerDay()
}

// DecisionPeriod converts a decision period of the given number of blocks
// into a window length in unit. Only whole days of the period count.
func DecisionPeriod(unit TimeUnit, blocks uint32) TimeLength {
	return TimeLength{Unit: unit, Length: blocks / Days * unit.PerDay()}
}
