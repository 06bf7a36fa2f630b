package govcurve

import (
	"errors"
	"math"
	"testing"
)

func TestFromRational(t *testing.T) {
	tests := []struct {
		num, den uint64
		want     Perbill
	}{
		{0, 1, Zero},
		{1, 1, One},
		{1, 3, 333_333_333},
		{2, 3, 666_666_666},
		{14, 14, One},
		{8, 14, 571_428_571},
		{1, 10_000, 100_000},
		{math.MaxUint64 - 1, math.MaxUint64, 999_999_999},
	}
	for _, tt := range tests {
		got, err := FromRational(tt.num, tt.den)
		if err != nil {
			t.Errorf("FromRational(%d, %d): unexpected error %v", tt.num, tt.den, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FromRational(%d, %d) = %d, want %d", tt.num, tt.den, got, tt.want)
		}
	}
}

func TestFromRationalDomain(t *testing.T) {
	for _, args := range [][2]uint64{{4, 3}, {1, 0}, {0, 0}} {
		_, err := FromRational(args[0], args[1])
		if !errors.Is(err, ErrDomain) {
			t.Errorf("FromRational(%d, %d): got error %v, want ErrDomain", args[0], args[1], err)
		}
	}
	_, err := FromRational(4, 3)
	var de *DomainError
	if !errors.As(err, &de) || de.Param != "numerator" {
		t.Errorf("got %#v, want DomainError for numerator", err)
	}
}

func TestPerbillSaturation(t *testing.T) {
	if got := Percent(10).SaturatingSub(Percent(20)); got != Zero {
		t.Errorf("10%% - 20%% = %s, want 0", got)
	}
	if got := Percent(70).SaturatingAdd(Percent(40)); got != One {
		t.Errorf("70%% + 40%% = %s, want 100%%", got)
	}
	if got := Percent(40).IntMul(3); got != One {
		t.Errorf("40%% * 3 = %s, want 100%%", got)
	}
	if got := PerbillFromParts(math.MaxUint32); got != One {
		t.Errorf("PerbillFromParts(max) = %s, want 100%%", got)
	}
	if got := Percent(250); got != One {
		t.Errorf("Percent(250) = %s, want 100%%", got)
	}
	if got := Zero.LessEpsilon(); got != Zero {
		t.Errorf("0 - ε = %s, want 0", got)
	}
}

func TestPerbillMul(t *testing.T) {
	diff(t, Percent(25), Percent(50).Mul(Percent(50)))
	diff(t, Perbill(111_111_110), Perbill(333_333_333).Mul(333_333_333))
	diff(t, One, One.Mul(One))
	diff(t, Zero, Zero.Mul(One))
}

func TestPerbillCheckedDiv(t *testing.T) {
	tests := []struct {
		a, b Perbill
		r    Rounding
		want Perbill
	}{
		{1, 3, Down, 333_333_333},
		{1, 3, Up, 333_333_334},
		{1, 3, NearestPrefDown, 333_333_333},
		{2, 3, Down, 666_666_666},
		{2, 3, NearestPrefDown, 666_666_667},
		{Percent(25), Percent(50), Down, Percent(50)},
		{One, One, Up, One},
	}
	for _, tt := range tests {
		got, ok := tt.a.CheckedDiv(tt.b, tt.r)
		if !ok || got != tt.want {
			t.Errorf("%d / %d (%s) = %d, %t, want %d", tt.a, tt.b, tt.r, got, ok, tt.want)
		}
	}

	if _, ok := Percent(50).CheckedDiv(Percent(25), Down); ok {
		t.Error("division exceeding one succeeded")
	}
	if _, ok := Percent(50).CheckedDiv(Zero, Down); ok {
		t.Error("division by zero succeeded")
	}
	if got := Percent(50).SaturatingDiv(Zero, Down); got != One {
		t.Errorf("saturating division by zero = %s, want 100%%", got)
	}
}

func TestPerbillDivInt(t *testing.T) {
	tests := []struct {
		r    Rounding
		want Perbill
	}{
		{Down, 2},
		{Up, 3},
		{NearestPrefDown, 2},
		{NearestPrefUp, 3},
	}
	for _, tt := range tests {
		if got, ok := Perbill(5).DivInt(2, tt.r); !ok || got != tt.want {
			t.Errorf("5 / 2 (%s) = %d, %t, want %d", tt.r, got, ok, tt.want)
		}
	}
	if _, ok := One.DivInt(0, Down); ok {
		t.Error("division by zero succeeded")
	}
}

func TestPerbillIntegerOps(t *testing.T) {
	if got := Percent(50).IntDiv(Percent(20)); got != 2 {
		t.Errorf("50%% / 20%% = %d, want 2", got)
	}
	if got := Percent(50).IntDiv(Zero); got != math.MaxUint32 {
		t.Errorf("50%% / 0 = %d, want MaxUint32", got)
	}

	tests := []struct {
		r    Rounding
		want uint32
	}{
		{Down, 1},
		{Up, 2},
		{NearestPrefDown, 1},
		{NearestPrefUp, 2},
	}
	for _, tt := range tests {
		if got := Percent(50).MulInt(3, tt.r); got != tt.want {
			t.Errorf("50%% of 3 (%s) = %d, want %d", tt.r, got, tt.want)
		}
	}
	if got := One.MulInt(math.MaxUint32, Down); got != math.MaxUint32 {
		t.Errorf("100%% of MaxUint32 = %d", got)
	}
}

func TestPerbillString(t *testing.T) {
	diff(t, "50.0000000%", Percent(50).String())
	diff(t, "100.0000000%", One.String())
	diff(t, "0.0100000%", Perbill(100_000).String())
	diff(t, "33.3333333%", Perbill(333_333_333).String())
}
