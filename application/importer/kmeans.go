package importer

import (
	"math"
	"math/rand"

	"contrastboard/domain/colormath"
)

type point [3]float64

// KMeans clusters pixels into k centers. Centers start at randomly
// chosen pixels; iteration stops early once no assignment changes.
// Centers that lose all their pixels keep their previous value.
func KMeans(pixels []colormath.RGB, k, maxIters int, rng *rand.Rand) []colormath.RGB {
	if len(pixels) == 0 || k < 1 {
		return nil
	}

	data := make([]point, len(pixels))
	for i, p := range pixels {
		data[i] = point{float64(p.R), float64(p.G), float64(p.B)}
	}

	centers := make([]point, k)
	for i := range centers {
		centers[i] = data[rng.Intn(len(data))]
	}

	assignments := make([]int, len(data))
	for i := range assignments {
		assignments[i] = -1
	}

	for iter := 0; iter < maxIters; iter++ {
		moved := false
		for i, p := range data {
			best := nearest(p, centers)
			if assignments[i] != best {
				assignments[i] = best
				moved = true
			}
		}
		if !moved {
			break
		}

		sums := make([]point, k)
		counts := make([]int, k)
		for i, p := range data {
			c := assignments[i]
			for d := 0; d < 3; d++ {
				sums[c][d] += p[d]
			}
			counts[c]++
		}
		for c := range centers {
			if counts[c] == 0 {
				continue
			}
			for d := 0; d < 3; d++ {
				centers[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	out := make([]colormath.RGB, k)
	for i, c := range centers {
		out[i] = colormath.RGB{R: toByte(c[0]), G: toByte(c[1]), B: toByte(c[2])}
	}
	return out
}

func nearest(p point, centers []point) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range centers {
		dr, dg, db := p[0]-c[0], p[1]-c[1], p[2]-c[2]
		if dist := dr*dr + dg*dg + db*db; dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

func toByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
