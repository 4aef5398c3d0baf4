package fracwatch

import Ft "github.com/trsch/fracwatch/types"

// DefaultWarmup is how many samples after a drilling onset are
// excluded from analysis. The bit settling back onto bottom makes
// the ROP derivative unusable for about this long.
const DefaultWarmup = 90

// DrillingFlags marks every sample where genuine drilling is
// happening: penetration rate strictly positive.
func DrillingFlags(s *Series) []bool {
	rop := s.Channel(Ft.ChanROP)
	flags := make([]bool, s.Len())
	for i, v := range rop {
		flags[i] = v > 0
	}
	return flags
}

// Onsets returns the indexes where the drilling flag transitions
// from off (or from nothing, at index 0) to on.
func Onsets(flags []bool) []int {
	var onsets []int
	for i, f := range flags {
		if !f {
			continue
		}
		if i == 0 || !flags[i-1] {
			onsets = append(onsets, i)
		}
	}
	return onsets
}

// Segment produces the filtered Series with every warm-up window
// removed. Each onset at i independently marks [i, i+warmup]; a sample
// is dropped when it falls inside the union of any such range, so
// overlapping onsets extend the exclusion rather than restart it.
func Segment(s *Series, warmup int) *Series {
	flags := DrillingFlags(s)
	ignored := make([]bool, s.Len())

	for _, onset := range Onsets(flags) {
		end := onset + warmup
		if end >= s.Len() {
			end = s.Len() - 1
		}
		for i := onset; i <= end; i++ {
			ignored[i] = true
		}
	}

	keep := make([]int, 0, s.Len())
	for i := range ignored {
		if !ignored[i] {
			keep = append(keep, i)
		}
	}

	return s.Select(keep)
}
