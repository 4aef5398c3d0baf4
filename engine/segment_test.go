package fracwatch_test

import (
	"testing"

	Fe "github.com/trsch/fracwatch/engine"
	Ft "github.com/trsch/fracwatch/types"
)

func TestDrillingFlags(t *testing.T) {
	s, err := Fe.NewSeries(makeRecords([]float64{0, 0.1, -1, 5}))
	assertError(t, err, nil)

	got := Fe.DrillingFlags(s)
	want := []bool{false, true, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("flag[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestOnsets(t *testing.T) {
	t.Run("Detects a transition into drilling", func(t *testing.T) {
		got := Fe.Onsets([]bool{false, false, true, true, false, true})
		want := []int{2, 5}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("onset[%d] = %d, want %d", i, got[i], want[i])
			}
		}
	})

	t.Run("The first sample can be an onset", func(t *testing.T) {
		got := Fe.Onsets([]bool{true, true})
		if len(got) != 1 || got[0] != 0 {
			t.Errorf("got %v, want [0]", got)
		}
	})
}

func TestSegment(t *testing.T) {
	t.Run("Excludes onset plus warm-up, keeps the rest", func(t *testing.T) {
		// Onset at index 2, warm-up of 2 covers [2,4]: only the two
		// non-drilling samples survive.
		s, err := Fe.NewSeries(makeRecords([]float64{0, 0, 50, 52, 54}))
		assertError(t, err, nil)

		seg := Fe.Segment(s, 2)
		if seg.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", seg.Len())
		}
		assertFloat(t, seg.Channel(Ft.ChanROP)[0], 0)
		assertFloat(t, seg.Channel(Ft.ChanROP)[1], 0)
	})

	t.Run("Retains drilling samples outside all warm-up windows", func(t *testing.T) {
		rops := make([]float64, 10)
		for i := 2; i < 10; i++ {
			rops[i] = 40
		}
		s, err := Fe.NewSeries(makeRecords(rops))
		assertError(t, err, nil)

		// onset at 2, warm-up 3 covers [2,5]; 0,1 non-drilling kept,
		// 6..9 drilling kept
		seg := Fe.Segment(s, 3)
		if seg.Len() != 6 {
			t.Fatalf("Len() = %d, want 6", seg.Len())
		}
		assertFloat(t, seg.Channel(Ft.ChanROP)[2], 40)
	})

	t.Run("Overlapping onsets extend the exclusion union", func(t *testing.T) {
		// Drilling stops and restarts inside the first warm-up window.
		// Both onsets mark their own range, the union covers [1,6].
		rops := []float64{0, 30, 30, 0, 30, 30, 30, 30, 30}
		s, err := Fe.NewSeries(makeRecords(rops))
		assertError(t, err, nil)

		seg := Fe.Segment(s, 2)
		// onsets at 1 and 4: [1,3] plus [4,6] ignored, keeping 0, 7, 8
		if seg.Len() != 3 {
			t.Fatalf("Len() = %d, want 3", seg.Len())
		}
		assertFloat(t, seg.Seconds[1], 7)
	})

	t.Run("Warm-up past the end of the series is safe", func(t *testing.T) {
		s, err := Fe.NewSeries(makeRecords([]float64{0, 10}))
		assertError(t, err, nil)

		seg := Fe.Segment(s, 90)
		if seg.Len() != 1 {
			t.Fatalf("Len() = %d, want 1", seg.Len())
		}
	})
}
