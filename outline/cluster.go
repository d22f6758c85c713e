package outline

import (
	"math"
	"math/rand"
	"sort"
)

// SizeTier is one cluster of quantized font sizes. Tiers are ordered by
// prominence: rank 0 holds the largest sizes.
type SizeTier struct {
	// Rank is the tier's position in the ordered set, 0 being the most
	// prominent.
	Rank int
	// Centroid is the weighted mean size of the tier's members.
	Centroid float64
	// Sizes holds the member sizes in descending order.
	Sizes []float64
}

// Max returns the largest member size.
func (t SizeTier) Max() float64 {
	if len(t.Sizes) == 0 {
		return 0
	}
	return t.Sizes[0]
}

// Min returns the smallest member size.
func (t SizeTier) Min() float64 {
	if len(t.Sizes) == 0 {
		return 0
	}
	return t.Sizes[len(t.Sizes)-1]
}

// Contains reports whether a quantized size belongs to this tier.
func (t SizeTier) Contains(size float64) bool {
	for _, s := range t.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// TierSet is the ordered tier list for one document together with the
// position of the body tier. Tiers above the body tier are heading
// tiers; the body tier and anything below it never promote on size.
type TierSet struct {
	Tiers    []SizeTier
	bodyRank int
}

// BodyRank returns the rank of the tier containing the body size.
func (ts *TierSet) BodyRank() int {
	return ts.bodyRank
}

// HeadingTierCount returns the number of tiers above the body tier.
func (ts *TierSet) HeadingTierCount() int {
	return ts.bodyRank
}

// HeadingRank returns the tier rank for a quantized size when that size
// falls in a tier above the body tier.
func (ts *TierSet) HeadingRank(size float64) (int, bool) {
	for _, t := range ts.Tiers {
		if t.Rank >= ts.bodyRank {
			break
		}
		if t.Contains(size) {
			return t.Rank, true
		}
	}
	return 0, false
}

// InBodyTier reports whether a quantized size belongs to the body tier
// itself, as opposed to a tier above or below it.
func (ts *TierSet) InBodyTier(size float64) bool {
	if ts.bodyRank >= len(ts.Tiers) {
		return false
	}
	return ts.Tiers[ts.bodyRank].Contains(size)
}

// TierClusterer groups the distinct quantized font sizes of a document
// into ordered size tiers. Clustering is k-means over the sizes
// weighted by log occurrence count, with a seeded initialization and a
// bounded refinement loop, so a given input always produces the same
// tiers. Tiers are strictly monotonic: every size in tier r exceeds
// every size in tier r+1.
type TierClusterer struct {
	config Config
}

// NewTierClusterer creates a clusterer with default configuration.
func NewTierClusterer() *TierClusterer {
	return NewTierClustererWithConfig(DefaultConfig())
}

// NewTierClustererWithConfig creates a clusterer with custom
// configuration.
func NewTierClustererWithConfig(config Config) *TierClusterer {
	config.sanitize()
	return &TierClusterer{config: config}
}

// Cluster groups the observed sizes into at most MaxTiers+1 tiers and
// locates the body tier among them. Empty stats yield an empty set; a
// single distinct size yields one tier that is its own body tier.
func (c *TierClusterer) Cluster(stats *FontStats) *TierSet {
	sizes := stats.Sizes()
	switch len(sizes) {
	case 0:
		return &TierSet{}
	case 1:
		return &TierSet{
			Tiers:    []SizeTier{{Rank: 0, Centroid: sizes[0], Sizes: sizes}},
			bodyRank: 0,
		}
	}

	weights := make([]float64, len(sizes))
	for i, s := range sizes {
		weights[i] = math.Log1p(float64(stats.Count(s)))
	}

	k := c.config.MaxTiers + 1
	if k > len(sizes) {
		k = len(sizes)
	}

	centroids := c.seedCentroids(sizes, weights, k)
	assign := c.refine(sizes, weights, centroids)
	tiers := c.buildTiers(sizes, assign, len(centroids), stats)
	tiers = c.mergeClose(tiers, stats)

	for r := range tiers {
		tiers[r].Rank = r
	}
	return &TierSet{Tiers: tiers, bodyRank: bodyRankOf(tiers, stats.BodySize())}
}

// seedCentroids picks k initial centroids k-means++ style: the largest
// size first, then draws weighted by squared distance to the nearest
// chosen centroid. The generator is seeded from the configuration, and
// sizes are visited in descending order, so the draw sequence is fixed.
func (c *TierClusterer) seedCentroids(sizes, weights []float64, k int) []float64 {
	rng := rand.New(rand.NewSource(c.config.Seed))
	centroids := make([]float64, 0, k)
	centroids = append(centroids, sizes[0])

	d2 := make([]float64, len(sizes))
	for len(centroids) < k {
		var total float64
		for i, s := range sizes {
			d := nearestDistance(s, centroids)
			d2[i] = d * d * weights[i]
			total += d2[i]
		}
		if total == 0 {
			break
		}
		target := rng.Float64() * total
		pick := -1
		var acc float64
		for i, v := range d2 {
			if v == 0 {
				continue
			}
			acc += v
			if target < acc {
				pick = i
				break
			}
		}
		if pick < 0 {
			// Floating point accumulation can leave target just past
			// the final bucket; take the last eligible size.
			for i := len(d2) - 1; i >= 0; i-- {
				if d2[i] > 0 {
					pick = i
					break
				}
			}
		}
		centroids = append(centroids, sizes[pick])
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(centroids)))
	return centroids
}

func nearestDistance(size float64, centroids []float64) float64 {
	best := math.Abs(size - centroids[0])
	for _, c := range centroids[1:] {
		if d := math.Abs(size - c); d < best {
			best = d
		}
	}
	return best
}

// refine runs bounded Lloyd iterations and returns the final
// size-to-centroid assignment. Distance ties resolve toward the lower
// centroid index, keeping the outcome independent of iteration history.
func (c *TierClusterer) refine(sizes, weights, centroids []float64) []int {
	assign := make([]int, len(sizes))
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < c.config.MaxIterations; iter++ {
		changed := false
		for i, s := range sizes {
			best := 0
			bestDist := math.Abs(s - centroids[0])
			for j := 1; j < len(centroids); j++ {
				if d := math.Abs(s - centroids[j]); d < bestDist {
					best = j
					bestDist = d
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([]float64, len(centroids))
		ws := make([]float64, len(centroids))
		for i, s := range sizes {
			sums[assign[i]] += s * weights[i]
			ws[assign[i]] += weights[i]
		}
		for j := range centroids {
			if ws[j] > 0 {
				centroids[j] = sums[j] / ws[j]
			}
		}
	}
	return assign
}

// buildTiers groups sizes by final assignment, drops empty clusters,
// and orders the tiers by descending centroid.
func (c *TierClusterer) buildTiers(sizes []float64, assign []int, clusters int, stats *FontStats) []SizeTier {
	members := make([][]float64, clusters)
	for i, s := range sizes {
		members[assign[i]] = append(members[assign[i]], s)
	}

	tiers := make([]SizeTier, 0, clusters)
	for _, m := range members {
		if len(m) == 0 {
			continue
		}
		tiers = append(tiers, SizeTier{Centroid: weightedCentroid(m, stats), Sizes: m})
	}
	sort.Slice(tiers, func(a, b int) bool {
		return tiers[a].Centroid > tiers[b].Centroid
	})
	return tiers
}

// mergeClose collapses adjacent tiers whose boundary gap is below
// MinTierGap. A 12.4pt "tier" one step above 12pt body text is jitter,
// not structure.
func (c *TierClusterer) mergeClose(tiers []SizeTier, stats *FontStats) []SizeTier {
	for i := 0; i < len(tiers)-1; {
		gap := tiers[i].Min() - tiers[i+1].Max()
		if gap < c.config.MinTierGap {
			merged := append(tiers[i].Sizes, tiers[i+1].Sizes...)
			tiers[i].Sizes = merged
			tiers[i].Centroid = weightedCentroid(merged, stats)
			tiers = append(tiers[:i+1], tiers[i+2:]...)
			if i > 0 {
				i--
			}
			continue
		}
		i++
	}
	return tiers
}

func weightedCentroid(sizes []float64, stats *FontStats) float64 {
	var sum, total float64
	for _, s := range sizes {
		w := math.Log1p(float64(stats.Count(s)))
		sum += s * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

func bodyRankOf(tiers []SizeTier, bodySize float64) int {
	for _, t := range tiers {
		if t.Contains(bodySize) {
			return t.Rank
		}
	}
	return len(tiers) - 1
}
