package models

import "testing"

func TestPairKeySymmetry(t *testing.T) {
	if PairKey(1, 2) != PairKey(2, 1) {
		t.Errorf("pair key must not depend on argument order")
	}
	if PairKey(1, 2) != "1:2" {
		t.Errorf("expected 1:2, got %s", PairKey(1, 2))
	}
	if PairKey(10, 2) != "2:10" {
		t.Errorf("expected 2:10, got %s", PairKey(10, 2))
	}
	if PairKey(7, 7) != "7:7" {
		t.Errorf("expected 7:7, got %s", PairKey(7, 7))
	}
}
