package engine

import "testing"

func TestWithDefaultsFillsZeroValues(t *testing.T) {
	c := withDefaults(Config{})
	if c.InitialScale != 1 {
		t.Fatalf("expected default InitialScale=1, got %v", c.InitialScale)
	}
	if c.MinScale != 0.1 {
		t.Fatalf("expected default MinScale=0.1, got %v", c.MinScale)
	}
	if c.MaxScale != 10 {
		t.Fatalf("expected default MaxScale=10, got %v", c.MaxScale)
	}
	if c.Wheel.Step != 0.2 {
		t.Fatalf("expected default Wheel.Step=0.2, got %v", c.Wheel.Step)
	}
	if c.DoubleClick.Step != 2 {
		t.Fatalf("expected default DoubleClick.Step=2, got %v", c.DoubleClick.Step)
	}
	if len(c.LODTable) == 0 {
		t.Fatalf("expected a default LOD table to be installed")
	}
	if !c.CenterOnInit {
		t.Fatalf("expected CenterOnInit to always be true")
	}
}

func TestWithDefaultsPreservesExplicitValues(t *testing.T) {
	custom := []LODLevel{{Downscale: 1, MaxRelScale: 1}}
	c := withDefaults(Config{InitialScale: 2, LODTable: custom})
	if c.InitialScale != 2 {
		t.Fatalf("expected explicit InitialScale to be preserved, got %v", c.InitialScale)
	}
	if len(c.LODTable) != 1 {
		t.Fatalf("expected explicit LODTable to be preserved")
	}
}

func TestDefaultLODTableIsMonotone(t *testing.T) {
	table := DefaultLODTable()
	for i := 1; i < len(table); i++ {
		if table[i].Downscale < table[i-1].Downscale {
			t.Fatalf("Downscale must be non-decreasing: level %d (%v) < level %d (%v)", i, table[i].Downscale, i-1, table[i-1].Downscale)
		}
		if table[i].MaxRelScale < table[i-1].MaxRelScale {
			t.Fatalf("MaxRelScale must be non-decreasing: level %d (%v) < level %d (%v)", i, table[i].MaxRelScale, i-1, table[i-1].MaxRelScale)
		}
	}
}

func TestAnimationDurationRespectsSmoothFlag(t *testing.T) {
	if got := (Config{Smooth: false}).animationDuration(); got != 0 {
		t.Fatalf("expected zero duration when Smooth is false, got %v", got)
	}
	if got := (Config{Smooth: true}).animationDuration(); got == 0 {
		t.Fatalf("expected a non-zero duration when Smooth is true")
	}
}
