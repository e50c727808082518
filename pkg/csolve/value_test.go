package csolve

import "testing"

func TestEqualTolIntegerExact(t *testing.T) {
	if !EqualTol(IntValue(3), IntValue(3), 0.1) {
		t.Errorf("3 == 3 should hold with any tolerance")
	}
	if EqualTol(IntValue(3), IntValue(4), 0.1) {
		t.Errorf("3 == 4 should never hold, regardless of tolerance")
	}
}

func TestEqualTolFloatWithinTolerance(t *testing.T) {
	tol := 0.0005
	if !EqualTol(FloatValue(1.0001), FloatValue(1.0004), tol) {
		t.Errorf("values within tolerance should compare equal")
	}
	if EqualTol(FloatValue(1.0), FloatValue(1.01), tol) {
		t.Errorf("values outside tolerance should not compare equal")
	}
}

func TestLessTolBoundary(t *testing.T) {
	tol := 0.01
	// A gap smaller than or equal to tol is not "strictly less".
	if LessTol(FloatValue(1.0), FloatValue(1.005), tol) {
		t.Errorf("gap within tolerance should not be reported as strictly less")
	}
	if !LessTol(FloatValue(1.0), FloatValue(1.5), tol) {
		t.Errorf("a clear gap should be reported as strictly less")
	}
}

func TestValueFloatWidening(t *testing.T) {
	v := IntValue(7)
	if v.Float() != 7.0 {
		t.Errorf("Int(7).Float() = %v, want 7.0", v.Float())
	}
	if !v.IsInt() {
		t.Errorf("expected IntValue to report IsInt() true")
	}
}
