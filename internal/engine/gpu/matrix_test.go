package gpu

import (
	"testing"

	"github.com/woolen-sheep/afilmory/internal/engine/enginetype"
)

func TestBuildMatrixIdentityAtFitCenter(t *testing.T) {
	t1 := enginetype.Transform{Scale: 1, TX: 0, TY: 0}
	m := BuildMatrix(t1, 800, 600, 800, 600)
	want := [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	if m != want {
		t.Fatalf("expected identity-equivalent matrix for matching viewport/image at scale 1, got %+v", m)
	}
}

func TestBuildMatrixScalesWithImageAspect(t *testing.T) {
	t1 := enginetype.Transform{Scale: 2}
	m := BuildMatrix(t1, 800, 600, 400, 300)
	if m[0] != 1 { // 2 * 400/800
		t.Fatalf("expected a=1, got %v", m[0])
	}
	if m[4] != 1 { // 2 * 300/600
		t.Fatalf("expected d=1, got %v", m[4])
	}
}

func TestBuildMatrixTranslationSigns(t *testing.T) {
	t1 := enginetype.Transform{Scale: 1, TX: 100, TY: 50}
	m := BuildMatrix(t1, 800, 600, 800, 600)
	if m[2] != 2*100.0/800 {
		t.Fatalf("expected e = 2*tx/Vw, got %v", m[2])
	}
	if m[5] != -2*50.0/600 {
		t.Fatalf("expected f = -2*ty/Vh, got %v", m[5])
	}
}
