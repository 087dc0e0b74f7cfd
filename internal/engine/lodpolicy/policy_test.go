package lodpolicy

import (
	"testing"

	"github.com/woolen-sheep/afilmory/internal/engine/enginetype"
)

func defaultTable() []enginetype.LODLevel {
	return []enginetype.LODLevel{
		{Downscale: 0.125, MaxRelScale: 0.5},
		{Downscale: 0.25, MaxRelScale: 1.0},
		{Downscale: 0.5, MaxRelScale: 2.0},
		{Downscale: 0.75, MaxRelScale: 4.0},
		{Downscale: 1.0, MaxRelScale: 1 << 30},
	}
}

func TestSelectPicksSmallestQualifyingLevel(t *testing.T) {
	table := defaultTable()
	cases := []struct {
		r, m float64
		want int
	}{
		{0.3, 1.0, 0},
		{0.5, 1.0, 0},
		{0.9, 1.0, 1},
		{1.9, 1.0, 2},
		{3.9, 1.0, 3},
		{100, 1.0, 4},
	}
	for _, c := range cases {
		if got := Select(table, c.r, c.m); got != c.want {
			t.Fatalf("Select(r=%v, m=%v) = %d, want %d", c.r, c.m, got, c.want)
		}
	}
}

func TestSelectModifierShrinksEachLevel(t *testing.T) {
	table := defaultTable()
	// r=0.9 is just past level 0's ceiling (0.5) at m=1, landing on level 1.
	if got := Select(table, 0.9, 1.0); got != 1 {
		t.Fatalf("expected level 1 at m=1.0, got %d", got)
	}
	// A lower modifier (memory pressure) shrinks every ceiling ψ·m, so for
	// the same r it never picks a coarser level than m=1 does.
	lowM := Select(table, 0.9, 0.5)
	fullM := Select(table, 0.9, 1.0)
	if lowM < fullM {
		t.Fatalf("lower modifier must never select a coarser level than the full-modifier selection: low-m=%d full-m=%d", lowM, fullM)
	}
}

func TestSelectFallsBackToFinestLevel(t *testing.T) {
	table := defaultTable()
	if got := Select(table, 1e9, 1.0); got != len(table)-1 {
		t.Fatalf("expected fallback to the finest level, got %d", got)
	}
}
