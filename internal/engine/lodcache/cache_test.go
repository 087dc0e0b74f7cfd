package lodcache

import (
	"testing"

	"github.com/woolen-sheep/afilmory/internal/engine/enginetype"
)

func TestBudgetByDeviceClass(t *testing.T) {
	cases := []struct {
		name   string
		class  enginetype.DeviceClass
		ratio  float64
		expect int64
	}{
		{"desktop", enginetype.DeviceDesktop, 1, int64(512 * mebibyte * 0.6)},
		{"mobile-low-dpi", enginetype.DeviceMobile, 2, int64(128 * mebibyte * 0.6)},
		{"mobile-high-dpi", enginetype.DeviceMobile, 3, int64(256 * mebibyte * 0.6)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Budget(c.class, c.ratio); got != c.expect {
				t.Fatalf("Budget(%v, %v) = %d, want %d", c.class, c.ratio, got, c.expect)
			}
		})
	}
}

func TestPressureThresholds(t *testing.T) {
	budget := int64(1000)
	cases := []struct {
		bytes int64
		want  enginetype.PressureLevel
	}{
		{0, enginetype.PressureLow},
		{500, enginetype.PressureLow},
		{501, enginetype.PressureMedium},
		{700, enginetype.PressureMedium},
		{701, enginetype.PressureHigh},
		{900, enginetype.PressureHigh},
		{901, enginetype.PressureCritical},
	}
	for _, c := range cases {
		if got := Pressure(c.bytes, budget); got != c.want {
			t.Fatalf("Pressure(%d, %d) = %v, want %v", c.bytes, budget, got, c.want)
		}
	}
}

func TestPressureZeroBudgetIsCritical(t *testing.T) {
	if got := Pressure(0, 0); got != enginetype.PressureCritical {
		t.Fatalf("Pressure with zero budget = %v, want critical", got)
	}
}

func TestEffectivePixelRatioCaps(t *testing.T) {
	if got := EffectivePixelRatio(enginetype.PressureLow, 3); got != 3 {
		t.Fatalf("low pressure must not cap, got %v", got)
	}
	if got := EffectivePixelRatio(enginetype.PressureMedium, 3); got != 2 {
		t.Fatalf("medium pressure should cap at 2, got %v", got)
	}
	if got := EffectivePixelRatio(enginetype.PressureHigh, 3); got != 1.5 {
		t.Fatalf("high pressure should cap at 1.5, got %v", got)
	}
	if got := EffectivePixelRatio(enginetype.PressureCritical, 3); got != 1 {
		t.Fatalf("critical pressure should cap at 1, got %v", got)
	}
}

func TestEffectiveMaxTextureSizeNeverExceedsDeviceMax(t *testing.T) {
	if got := EffectiveMaxTextureSize(enginetype.PressureLow, 2048); got != 2048 {
		t.Fatalf("low pressure should keep device max when it's already small, got %v", got)
	}
	if got := EffectiveMaxTextureSize(enginetype.PressureMedium, 16384); got != 8192 {
		t.Fatalf("medium pressure should cap at 8192, got %v", got)
	}
	if got := EffectiveMaxTextureSize(enginetype.PressureCritical, 16384); got != 2048 {
		t.Fatalf("critical pressure should cap at 2048, got %v", got)
	}
}

func TestLODModifierMonotoneDecreasing(t *testing.T) {
	low := LODModifier(enginetype.PressureLow)
	medium := LODModifier(enginetype.PressureMedium)
	high := LODModifier(enginetype.PressureHigh)
	critical := LODModifier(enginetype.PressureCritical)
	if !(low > medium && medium > high && high > critical) {
		t.Fatalf("expected strictly decreasing modifiers, got low=%v medium=%v high=%v critical=%v", low, medium, high, critical)
	}
}
