package halation

import (
	"math"
	"testing"
)

func TestViewZeroValueIsIdentity(t *testing.T) {
	var v View
	if !v.IsIdentity() || !IdentityView().IsIdentity() {
		t.Fatal("zero View is not identity")
	}
	if x, y := v.Map(12, 7); x != 12 || y != 7 {
		t.Errorf("Map(12, 7) = (%v, %v)", x, y)
	}
}

func TestViewPan(t *testing.T) {
	v := View{}.Pan(5, -3).Pan(1, 1)
	if v.IsIdentity() {
		t.Fatal("panned view reports identity")
	}
	if x, y := v.Map(0, 0); x != 6 || y != -2 {
		t.Errorf("Map(0, 0) = (%v, %v), want (6, -2)", x, y)
	}
}

func TestViewZoomKeepsAnchor(t *testing.T) {
	tests := []struct {
		factor, cx, cy float64
	}{
		{2, 0, 0},
		{2, 100, 50},
		{0.5, 40, 30},
		{3, -10, 20},
	}
	for _, tt := range tests {
		v := IdentityView().Pan(7, 9)
		// Canvas point under the anchor before zooming.
		px, py := (tt.cx-v.X)/v.Scale, (tt.cy-v.Y)/v.Scale
		z := v.Zoom(tt.factor, tt.cx, tt.cy)
		x, y := z.Map(px, py)
		if math.Abs(x-tt.cx) > 1e-9 || math.Abs(y-tt.cy) > 1e-9 {
			t.Errorf("Zoom(%v) at (%v,%v): anchor moved to (%v,%v)", tt.factor, tt.cx, tt.cy, x, y)
		}
		if z.Scale != tt.factor {
			t.Errorf("Zoom(%v) scale = %v", tt.factor, z.Scale)
		}
	}
}

func TestViewZoomLimits(t *testing.T) {
	v := IdentityView().Zoom(1000, 0, 0)
	if v.Scale != MaxZoom {
		t.Errorf("scale = %v, want %v", v.Scale, MaxZoom)
	}
	v = IdentityView().Zoom(1e-6, 0, 0)
	if v.Scale != MinZoom {
		t.Errorf("scale = %v, want %v", v.Scale, MinZoom)
	}
	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if got := IdentityView().Zoom(f, 3, 3); got != IdentityView() {
			t.Errorf("Zoom(%v) = %+v, want unchanged", f, got)
		}
	}
}

func TestViewAffine(t *testing.T) {
	v := View{X: 4, Y: 2, Scale: 2}
	a := v.affine()
	if x, y := a.Apply(3, 5); x != 10 || y != 12 {
		t.Errorf("affine maps (3,5) to (%v,%v), want (10,12)", x, y)
	}
	inv, ok := a.Invert()
	if !ok {
		t.Fatal("view affine not invertible")
	}
	if x, y := inv.Apply(10, 12); math.Abs(x-3) > 1e-12 || math.Abs(y-5) > 1e-12 {
		t.Errorf("inverse maps (10,12) to (%v,%v)", x, y)
	}
}
