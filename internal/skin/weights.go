package skin

import (
	"fmt"
	"math"
)

// weightEpsilon absorbs float drift when comparing and validating weights.
const weightEpsilon = 1e-6

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// redistribute replaces the active influence's weight with target and moves
// the difference to or from the source influences, proportionally to the
// weight each source already holds. Weight pulled from sources that hold
// nothing is spread evenly. The input vector is never mutated.
func redistribute(existing WeightMap, active InfluenceID, sources []InfluenceID, target float64) (WeightMap, error) {
	srcs := make([]InfluenceID, 0, len(sources))
	for _, id := range sources {
		if id != active {
			srcs = append(srcs, id)
		}
	}

	result := existing.Clone()
	current := result[active]
	delta := target - current
	if math.Abs(delta) < weightEpsilon {
		return result, nil
	}
	if len(srcs) == 0 {
		return nil, fmt.Errorf("no source influences to redistribute %.3f: %w", delta, ErrInvalidBatch)
	}

	available := 0.0
	for _, id := range srcs {
		available += result[id]
	}

	if delta > 0 {
		if available+weightEpsilon < delta {
			return nil, fmt.Errorf("source influences hold %.3f, need %.3f: %w", available, delta, ErrInvalidBatch)
		}
		for _, id := range srcs {
			result[id] -= delta * (result[id] / available)
		}
	} else {
		gain := -delta
		if available > weightEpsilon {
			for _, id := range srcs {
				result[id] += gain * (result[id] / available)
			}
		} else {
			share := gain / float64(len(srcs))
			for _, id := range srcs {
				result[id] += share
			}
		}
	}

	result[active] = target
	for id, weight := range result {
		if weight < weightEpsilon {
			if weight < -weightEpsilon {
				return nil, fmt.Errorf("influence %d driven negative (%.6f): %w", id, weight, ErrInvalidBatch)
			}
			result[id] = 0
		}
	}
	return result, nil
}

// normalizeWeights scales a vector so its weights sum to one. A zero vector
// is returned unchanged.
func normalizeWeights(w WeightMap) WeightMap {
	total := w.Sum()
	if total < weightEpsilon {
		return w.Clone()
	}
	result := make(WeightMap, len(w))
	for id, weight := range w {
		result[id] = weight / total
	}
	return result
}

// averageWeights means the supplied vectors per influence and renormalizes.
func averageWeights(snapshots []WeightMap) WeightMap {
	if len(snapshots) == 0 {
		return WeightMap{}
	}
	sums := WeightMap{}
	for _, snapshot := range snapshots {
		for id, weight := range snapshot {
			sums[id] += weight
		}
	}
	count := float64(len(snapshots))
	for id := range sums {
		sums[id] /= count
	}
	return normalizeWeights(sums)
}

// validateVector rejects vectors holding out-of-range weights, a total away
// from one, or references to dead influences.
func validateVector(influences Influences, w WeightMap) error {
	for id, weight := range w {
		if !influences.Contains(id) {
			return fmt.Errorf("influence %d: %w", id, ErrUnknownInfluence)
		}
		if weight < -weightEpsilon || weight > 1+weightEpsilon {
			return fmt.Errorf("influence %d weight %.6f out of range: %w", id, weight, ErrInvalidBatch)
		}
	}
	if total := w.Sum(); math.Abs(total-1) > 1e-3 {
		return fmt.Errorf("weights sum to %.6f: %w", total, ErrInvalidBatch)
	}
	return nil
}
