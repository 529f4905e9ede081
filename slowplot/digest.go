package slowplot

import (
	"math"
	"sort"
)

const (
	// Buckets merge adjacent message lengths until each holds at least
	// total/bucketTarget samples, so per-bucket percentiles stay meaningful.
	bucketTarget = 400

	// Messages below this length qualify for the short-message CDF.
	shortMessageMax = 1500
)

// GetBuckets computes the bucket boundaries for histogramming data. The
// returned buckets are in ascending length order; the final bucket absorbs
// any partial remainder and its cumulative fraction is forced to 1.0.
func GetBuckets(data *Dataset) []Bucket {
	buckets := []Bucket{}
	total := data.TotalMessages
	if total == 0 {
		return buckets
	}

	minSize := total / bucketTarget
	curSize := 0
	cumulative := 0
	lastLength := 0

	for _, length := range sortedLengths(data.RTTs) {
		curSize += data.Counts[length]
		cumulative += data.Counts[length]
		if curSize >= minSize {
			buckets = append(buckets, Bucket{
				Length:  length,
				CumFrac: float64(cumulative) / float64(total),
			})
			curSize = 0
		}
		lastLength = length
	}

	if curSize != 0 {
		buckets[len(buckets)-1] = Bucket{Length: lastLength, CumFrac: 1.0}
	}

	return buckets
}

// DigestDataset condenses per-length samples into per-bucket percentile
// series. unloaded maps message lengths to baseline RTTs; each sample's
// slowdown uses the baseline of the nearest known length not exceeding the
// sample's length. Buckets with no samples get a zero placeholder so the
// parallel series stay aligned with buckets.
func DigestDataset(data *Dataset, unloaded map[int]float64, buckets []Bucket) *Digest {
	digest := &Digest{}
	if len(buckets) == 0 || data.TotalMessages == 0 {
		return digest
	}

	curUnloaded := 1.0
	if baselineLengths := sortedLengthsF64(unloaded); len(baselineLengths) > 0 {
		curUnloaded = unloaded[baselineLengths[0]]
	}

	nextBucket := 1
	bucket := buckets[0]
	bucketRTTs := []float64{}
	bucketSlowdowns := []float64{}
	bucketCount := 0

	lengths := sortedLengths(data.RTTs)
	lengths = append(lengths, math.MaxInt) // sentinel to flush the final bucket

	for _, length := range lengths {
		if length > bucket.Length {
			digest.Lengths = append(digest.Lengths, bucket.Length)
			digest.CumFrac = append(digest.CumFrac, bucket.CumFrac)
			digest.Counts = append(digest.Counts, bucketCount)

			if len(bucketRTTs) == 0 {
				bucketRTTs = append(bucketRTTs, 0)
				bucketSlowdowns = append(bucketSlowdowns, 0)
			}

			sort.Float64s(bucketRTTs)
			digest.P50 = append(digest.P50, percentileOfSorted(bucketRTTs, bucketCount, 500))
			digest.P99 = append(digest.P99, percentileOfSorted(bucketRTTs, bucketCount, 990))
			digest.P999 = append(digest.P999, percentileOfSorted(bucketRTTs, bucketCount, 999))

			sort.Float64s(bucketSlowdowns)
			digest.Slow50 = append(digest.Slow50, percentileOfSorted(bucketSlowdowns, bucketCount, 500))
			digest.Slow99 = append(digest.Slow99, percentileOfSorted(bucketSlowdowns, bucketCount, 990))
			digest.Slow999 = append(digest.Slow999, percentileOfSorted(bucketSlowdowns, bucketCount, 999))

			if nextBucket >= len(buckets) {
				break
			}
			bucket = buckets[nextBucket]
			nextBucket += 1
			bucketRTTs = []float64{}
			bucketSlowdowns = []float64{}
			bucketCount = 0
		}

		if baseline, ok := unloaded[length]; ok {
			curUnloaded = baseline
		}

		rtts := data.RTTs[length]
		bucketCount += len(rtts)
		for _, rtt := range rtts {
			bucketRTTs = append(bucketRTTs, rtt)
			bucketSlowdowns = append(bucketSlowdowns, rtt/curUnloaded)
		}
	}

	return digest
}

func sortedLengthsF64(baselines map[int]float64) []int {
	lengths := make([]int, 0, len(baselines))

	for length := range baselines {
		lengths = append(lengths, length)
	}
	sort.Ints(lengths)

	return lengths
}

// GetShortCDF extracts the RTTs of messages shorter than 1500 bytes that are
// also among the 10% shortest messages, and returns them as a descending
// step function from 1.0 down to 0. An empty short-message set yields an
// empty CDF.
func GetShortCDF(data *Dataset) *CDF {
	short := []float64{}
	messagesLeft := data.TotalMessages / 10

	for _, length := range sortedLengths(data.RTTs) {
		if length >= shortMessageMax {
			break
		}
		short = append(short, data.RTTs[length]...)
		messagesLeft -= len(data.RTTs[length])
		if messagesLeft < 0 {
			break
		}
	}

	cdf := &CDF{}
	total := len(short)
	if total == 0 {
		return cdf
	}

	sort.Float64s(short)
	remaining := total
	for _, rtt := range short {
		if len(cdf.X) > 0 {
			cdf.X = append(cdf.X, rtt)
			cdf.Y = append(cdf.Y, float64(remaining)/float64(total))
		}
		remaining -= 1
		cdf.X = append(cdf.X, rtt)
		cdf.Y = append(cdf.Y, float64(remaining)/float64(total))
	}

	return cdf
}
