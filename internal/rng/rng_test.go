package rng

import "testing"

func TestSameSeedSameSequence(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 100; i++ {
		if got, want := a.Intn(1000), b.Intn(1000); got != want {
			t.Fatalf("draw %d: %d != %d", i, got, want)
		}
	}
}

func TestRangeInclusive(t *testing.T) {
	s := New(7)

	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := s.Range(3, 5)
		if v < 3 || v > 5 {
			t.Fatalf("Range(3, 5) = %d, out of range", v)
		}
		seen[v] = true
	}

	// All three values should show up over 1000 draws.
	for v := 3; v <= 5; v++ {
		if !seen[v] {
			t.Errorf("Range(3, 5) never produced %d", v)
		}
	}
}

func TestRangeDegenerate(t *testing.T) {
	s := New(1)
	if got := s.Range(4, 4); got != 4 {
		t.Errorf("Range(4, 4) = %d, want 4", got)
	}
	if got := s.Range(9, 2); got != 9 {
		t.Errorf("Range(9, 2) = %d, want 9", got)
	}
}

func TestPickIndexZeroTotal(t *testing.T) {
	s := New(1)
	if got := s.PickIndex(nil); got != -1 {
		t.Errorf("PickIndex(nil) = %d, want -1", got)
	}
	if got := s.PickIndex([]int{0, 0, 0}); got != -1 {
		t.Errorf("PickIndex(zeros) = %d, want -1", got)
	}
}

func TestPickIndexSkipsZeroWeights(t *testing.T) {
	s := New(3)
	weights := []int{0, 5, 0, 5, 0}
	for i := 0; i < 200; i++ {
		idx := s.PickIndex(weights)
		if idx != 1 && idx != 3 {
			t.Fatalf("PickIndex = %d, want 1 or 3", idx)
		}
	}
}

func TestPickIndexDistribution(t *testing.T) {
	s := New(99)
	weights := []int{1, 3}
	counts := [2]int{}
	const draws = 40000

	for i := 0; i < draws; i++ {
		counts[s.PickIndex(weights)]++
	}

	// Expect roughly 25% / 75%; allow a generous tolerance.
	ratio := float64(counts[1]) / float64(draws)
	if ratio < 0.72 || ratio > 0.78 {
		t.Errorf("weight-3 entry drawn %.3f of the time, want ~0.75", ratio)
	}
}

func TestDeriveFloorSeedStable(t *testing.T) {
	a := DeriveFloorSeed(42, 0, 3)
	b := DeriveFloorSeed(42, 0, 3)
	if a != b {
		t.Errorf("DeriveFloorSeed not stable: %d != %d", a, b)
	}
}

func TestDeriveFloorSeedDistinct(t *testing.T) {
	seen := make(map[int64]string)
	for seg := 0; seg < 4; seg++ {
		for floor := 0; floor < 30; floor++ {
			seed := DeriveFloorSeed(42, seg, floor)
			if prev, ok := seen[seed]; ok {
				t.Fatalf("seed collision between %s and seg %d floor %d", prev, seg, floor)
			}
			seen[seed] = ""
		}
	}
}

func TestSegmentSeedIndependentOfFloorSeeds(t *testing.T) {
	segSeed := DeriveSegmentSeed(42, 0)
	for floor := 0; floor < 100; floor++ {
		if segSeed == DeriveFloorSeed(42, 0, floor) {
			t.Fatalf("segment seed collides with floor %d seed", floor)
		}
	}
}
