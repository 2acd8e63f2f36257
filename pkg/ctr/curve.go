// Package ctr models organic click-through rate as a function of SERP
// position. The curve is a fixed lookup table so the values stay auditable
// and testable on their own.
package ctr

// MaxDepth is the deepest SERP position the curve is defined for
const MaxDepth = 100

// tailFloor is the asymptotic CTR assigned to the deepest positions
const tailFloor = 0.0005

// anchorCurve holds the published CTR anchor points for positions 1-20
var anchorCurve = [20]float64{
	0.30, 0.15, 0.10, 0.06, 0.04,
	0.03, 0.025, 0.02, 0.015, 0.01,
	0.009, 0.008, 0.007, 0.006, 0.005,
	0.004, 0.003, 0.002, 0.001, 0.001,
}

// curve is the full position 1..MaxDepth table; positions past the anchors
// decay linearly from the last anchor down to tailFloor at MaxDepth.
var curve = buildCurve()

func buildCurve() [MaxDepth]float64 {
	var table [MaxDepth]float64
	copy(table[:], anchorCurve[:])

	last := anchorCurve[len(anchorCurve)-1]
	span := float64(MaxDepth - len(anchorCurve))
	for i := len(anchorCurve); i < MaxDepth; i++ {
		step := float64(i + 1 - len(anchorCurve))
		table[i] = last - (last-tailFloor)*step/span
	}
	return table
}

// EstimateClicks returns the CTR for a 1-based SERP position. The value is
// non-increasing in rank. Callers must validate rank at the boundary;
// positions outside 1..MaxDepth contribute no clicks.
func EstimateClicks(rank int) float64 {
	if rank < 1 || rank > MaxDepth {
		return 0
	}
	return curve[rank-1]
}

// EstimateTraffic returns the estimated monthly clicks a ranking URL earns
// from a keyword: search volume weighted by the position CTR.
func EstimateTraffic(searchVolume int, rank int) float64 {
	return float64(searchVolume) * EstimateClicks(rank)
}

// ValidRank reports whether a SERP position is within the supported range
func ValidRank(rank int) bool {
	return rank >= 1 && rank <= MaxDepth
}
