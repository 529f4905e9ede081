package slowplot

import (
	"sort"
)

func sortedLengths(rtts map[int][]float64) []int {
	lengths := make([]int, 0, len(rtts))

	for length := range rtts {
		lengths = append(lengths, length)
	}
	sort.Ints(lengths)

	return lengths
}

// percentileOfSorted extracts a rank-based percentile from an already-sorted
// series: index = count * permille / 1000, truncating. The count is passed
// separately so that a zero-placeholder series reports count 0 and rank 0.
func percentileOfSorted(sorted []float64, count int, permille int) float64 {
	return sorted[count*permille/1000]
}

func medianOfSamples(samples []float64) float64 {
	sorted := append([]float64{}, samples...)
	sort.Float64s(sorted)

	return sorted[len(sorted)/2]
}

// GetUnloadedMedians computes the per-length baseline RTT as the median of
// the samples observed for each length.
func GetUnloadedMedians(data *Dataset) map[int]float64 {
	medians := make(map[int]float64, len(data.RTTs))

	for length, rtts := range data.RTTs {
		medians[length] = medianOfSamples(rtts)
	}

	return medians
}
