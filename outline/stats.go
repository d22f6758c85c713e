package outline

import (
	"math"
	"sort"

	"github.com/strucdoc/strata/model"
)

// Quantize rounds a font size to the 0.1pt grid. Rendering libraries
// report the same nominal size with sub-point jitter; quantizing keeps
// the distinct-size space small and stable.
func Quantize(size float64) float64 {
	return math.Round(size*10) / 10
}

// FontStats is the document-wide font size distribution, gathered in a
// single pass before any classification starts.
type FontStats struct {
	counts    map[float64]int
	boldCount map[float64]int
	fragments int
	pages     int
	body      float64
}

// CollectStats scans every fragment once and tallies quantized font
// sizes. The returned stats are read-only afterwards and safe to share
// across goroutines.
func CollectStats(pages []model.PageFragments) *FontStats {
	s := &FontStats{
		counts:    make(map[float64]int),
		boldCount: make(map[float64]int),
		pages:     len(pages),
	}
	for _, pg := range pages {
		for _, f := range pg.Fragments {
			q := Quantize(f.FontSize)
			s.counts[q]++
			if f.Bold {
				s.boldCount[q]++
			}
			s.fragments++
		}
	}
	s.body = s.computeBodySize()
	return s
}

// computeBodySize picks the most frequent quantized size. A count tie
// resolves toward the larger size so that documents split evenly
// between a large and a small face keep the more prominent one as body,
// which is the conservative choice for promotion.
func (s *FontStats) computeBodySize() float64 {
	var best float64
	bestCount := 0
	for size, count := range s.counts {
		if count > bestCount || (count == bestCount && size > best) {
			best = size
			bestCount = count
		}
	}
	return best
}

// BodySize returns the presumed body text size, or 0 for empty input.
func (s *FontStats) BodySize() float64 {
	return s.body
}

// FragmentCount returns the total number of fragments seen.
func (s *FontStats) FragmentCount() int {
	return s.fragments
}

// PageCount returns the number of pages seen, including empty ones.
func (s *FontStats) PageCount() int {
	return s.pages
}

// DistinctSizes returns the number of distinct quantized sizes.
func (s *FontStats) DistinctSizes() int {
	return len(s.counts)
}

// Count returns the fragment count for a quantized size.
func (s *FontStats) Count(size float64) int {
	return s.counts[size]
}

// BoldShare returns the fraction of fragments at a quantized size that
// carry bold emphasis.
func (s *FontStats) BoldShare(size float64) float64 {
	total := s.counts[size]
	if total == 0 {
		return 0
	}
	return float64(s.boldCount[size]) / float64(total)
}

// Sizes returns the distinct quantized sizes in descending order.
func (s *FontStats) Sizes() []float64 {
	sizes := make([]float64, 0, len(s.counts))
	for size := range s.counts {
		sizes = append(sizes, size)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))
	return sizes
}

// IsEmpty reports whether no fragments were seen.
func (s *FontStats) IsEmpty() bool {
	return s.fragments == 0
}

// IsDegenerate reports whether every fragment shares one size, leaving
// the clustering stage nothing to separate.
func (s *FontStats) IsDegenerate() bool {
	return len(s.counts) == 1
}
