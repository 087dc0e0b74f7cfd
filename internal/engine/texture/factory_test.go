package texture

import (
	"image"
	"testing"
)

func TestTargetSizeNativeWhenUnconstrained(t *testing.T) {
	w, h := TargetSize(4000, 3000, 1.0, 8192, 1<<30)
	if w != 4000 || h != 3000 {
		t.Fatalf("expected native size when unconstrained, got %dx%d", w, h)
	}
}

func TestTargetSizeAppliesDownscale(t *testing.T) {
	w, h := TargetSize(4000, 3000, 0.25, 8192, 1<<30)
	if w != 1000 || h != 750 {
		t.Fatalf("expected 0.25x downscale, got %dx%d", w, h)
	}
}

func TestTargetSizeCapsToMaxTextureSizePreservingAspect(t *testing.T) {
	w, h := TargetSize(16000, 8000, 1.0, 4096, 1<<30)
	if w > 4096 || h > 4096 {
		t.Fatalf("expected both dimensions capped to %d, got %dx%d", 4096, w, h)
	}
	gotAspect := float64(w) / float64(h)
	wantAspect := 16000.0 / 8000.0
	if diff := gotAspect - wantAspect; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("expected aspect ratio preserved, got %v want %v", gotAspect, wantAspect)
	}
}

func TestTargetSizeCapsToByteBudget(t *testing.T) {
	// A huge request against a tiny budget should be scaled down well below
	// the requested size, and stay within 30% of budgetBytes (4 bytes/px).
	budget := int64(1 << 20) // 1 MiB
	w, h := TargetSize(8000, 8000, 1.0, 1<<20, budget)
	bytes := int64(4 * w * h)
	capBytes := int64(0.30 * float64(budget))
	if bytes > capBytes+4*int64(w+h)+4 { // small rounding slack
		t.Fatalf("expected bytes (%d) to respect 30%% budget cap (%d)", bytes, capBytes)
	}
}

func TestProduceDirectJobSkipsRescale(t *testing.T) {
	decoded := fakeDecoded{w: 10, h: 10}
	job := Job{Direct: true, Decoded: decoded, TargetW: 10, TargetH: 10}
	pixels, err := produce(job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pixels != nil {
		t.Fatalf("expected nil pixels for a direct job, got %v", pixels)
	}
}

func TestProduceRescalesHighAndMediumSmoothing(t *testing.T) {
	decoded := fakeDecoded{w: 100, h: 100}
	for _, smoothing := range []Smoothing{SmoothingHigh, SmoothingMedium} {
		job := Job{Decoded: decoded, TargetW: 50, TargetH: 50, Smoothing: smoothing}
		pixels, err := produce(job)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pixels == nil {
			t.Fatalf("expected non-nil pixels for a rescale job")
		}
		b := pixels.Bounds()
		if b.Dx() != 50 || b.Dy() != 50 {
			t.Fatalf("expected 50x50 output, got %dx%d", b.Dx(), b.Dy())
		}
	}
}

type fakeDecoded struct {
	w, h int
}

func (f fakeDecoded) Image() image.Image { return image.NewRGBA(image.Rect(0, 0, f.w, f.h)) }
func (f fakeDecoded) Width() int         { return f.w }
func (f fakeDecoded) Height() int        { return f.h }
func (f fakeDecoded) URL() string        { return "fake://test" }
