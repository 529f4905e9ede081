package slowplot

import (
	"io"
	"log"
	"testing"

	"gotest.tools/v3/assert"
)

func discardPrinter() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func addDummySamples(data *Dataset, length int, rtts ...float64) {
	for _, rtt := range rtts {
		data.RTTs[length] = append(data.RTTs[length], rtt)
		data.Counts[length] += 1
		data.TotalMessages += 1
	}
}

func TestGetBuckets_EmptyDataset(t *testing.T) {
	buckets := GetBuckets(NewDataset())

	assert.Equal(t, len(buckets), 0)
}

func TestGetBuckets_SmallDatasetOneBucketPerLength(t *testing.T) {
	data := NewDataset()
	addDummySamples(data, 100, 10.0)
	addDummySamples(data, 200, 20.0)
	addDummySamples(data, 300, 30.0, 31.0)

	buckets := GetBuckets(data)

	assert.DeepEqual(t, buckets, []Bucket{
		{Length: 100, CumFrac: 0.25},
		{Length: 200, CumFrac: 0.5},
		{Length: 300, CumFrac: 1.0},
	})
}

func TestGetBuckets_RemainderForcesFinalFraction(t *testing.T) {
	data := NewDataset()
	for i := 0; i < 797; i += 1 {
		addDummySamples(data, 100, 10.0)
	}
	addDummySamples(data, 200, 20.0, 21.0)
	addDummySamples(data, 300, 30.0)

	// total 800, min bucket size 2: length 300 is left as a partial bucket
	// and the final bucket is rewritten to absorb it.
	buckets := GetBuckets(data)

	assert.DeepEqual(t, buckets, []Bucket{
		{Length: 100, CumFrac: 797.0 / 800.0},
		{Length: 300, CumFrac: 1.0},
	})
}

func TestGetBuckets_FractionsNonDecreasing(t *testing.T) {
	data := NewDataset()
	for length := 100; length <= 4000; length += 100 {
		for i := 0; i < length/50; i += 1 {
			addDummySamples(data, length, float64(length)/10)
		}
	}

	buckets := GetBuckets(data)

	assert.Assert(t, len(buckets) > 0)
	prev := 0.0
	for _, bucket := range buckets {
		assert.Assert(t, bucket.CumFrac >= prev)
		prev = bucket.CumFrac
	}
	assert.Equal(t, buckets[len(buckets)-1].CumFrac, 1.0)
}

func TestGetUnloadedMedians(t *testing.T) {
	data := NewDataset()
	addDummySamples(data, 100, 30.0, 10.0, 20.0)
	addDummySamples(data, 200, 40.0, 50.0)

	medians := GetUnloadedMedians(data)

	assert.DeepEqual(t, medians, map[int]float64{100: 20.0, 200: 50.0})
}

func TestDigestDataset_KnownSlowdowns(t *testing.T) {
	data := NewDataset()
	addDummySamples(data, 100, 10.0, 20.0, 30.0)
	dummyUnloaded := map[int]float64{100: 10.0}

	digest := DigestDataset(data, dummyUnloaded, GetBuckets(data))

	assert.DeepEqual(t, digest.Lengths, []int{100})
	assert.DeepEqual(t, digest.CumFrac, []float64{1.0})
	assert.DeepEqual(t, digest.Counts, []int{3})
	assert.DeepEqual(t, digest.P50, []float64{20.0})
	assert.DeepEqual(t, digest.P99, []float64{30.0})
	assert.DeepEqual(t, digest.P999, []float64{30.0})
	assert.DeepEqual(t, digest.Slow50, []float64{2.0})
	assert.DeepEqual(t, digest.Slow99, []float64{3.0})
	assert.DeepEqual(t, digest.Slow999, []float64{3.0})
}

func TestDigestDataset_NearestBaseline(t *testing.T) {
	data := NewDataset()
	addDummySamples(data, 100, 10.0)
	addDummySamples(data, 150, 30.0)
	addDummySamples(data, 200, 40.0)
	dummyUnloaded := map[int]float64{100: 10.0, 200: 20.0}

	digest := DigestDataset(data, dummyUnloaded, GetBuckets(data))

	// 150 has no baseline of its own and falls back to length 100's;
	// 200 picks up its own baseline again.
	assert.DeepEqual(t, digest.Slow50, []float64{1.0, 3.0, 2.0})
}

func TestDigestDataset_EmptyBucketPlaceholder(t *testing.T) {
	homa := NewDataset()
	addDummySamples(homa, 100, 10.0)
	addDummySamples(homa, 200, 20.0)
	buckets := GetBuckets(homa)

	tcp := NewDataset()
	addDummySamples(tcp, 200, 50.0, 60.0)
	dummyUnloaded := map[int]float64{100: 10.0}

	digest := DigestDataset(tcp, dummyUnloaded, buckets)

	assert.DeepEqual(t, digest.Lengths, []int{100, 200})
	assert.DeepEqual(t, digest.Counts, []int{0, 2})
	assert.DeepEqual(t, digest.P50, []float64{0.0, 60.0})
	assert.DeepEqual(t, digest.Slow50, []float64{0.0, 6.0})
}

func TestDigestDataset_PercentileOrdering(t *testing.T) {
	data := NewDataset()
	for length := 100; length <= 1000; length += 100 {
		for i := 0; i < 50; i += 1 {
			addDummySamples(data, length, float64(10+i%17), float64(30+i%5))
		}
	}
	dummyUnloaded := map[int]float64{100: 10.0, 500: 15.0}

	digest := DigestDataset(data, dummyUnloaded, GetBuckets(data))

	assert.Assert(t, len(digest.Lengths) > 0)
	for i := range digest.Lengths {
		assert.Assert(t, digest.P50[i] <= digest.P99[i])
		assert.Assert(t, digest.P99[i] <= digest.P999[i])
		assert.Assert(t, digest.Slow50[i] <= digest.Slow99[i])
		assert.Assert(t, digest.Slow99[i] <= digest.Slow999[i])
	}
}

func TestGetShortCDF(t *testing.T) {
	data := NewDataset()
	addDummySamples(data, 10, 30.0)
	addDummySamples(data, 20, 10.0)
	for i := 0; i < 18; i += 1 {
		addDummySamples(data, 2000, 100.0)
	}

	cdf := GetShortCDF(data)

	assert.DeepEqual(t, cdf.X, []float64{10.0, 30.0, 30.0})
	assert.DeepEqual(t, cdf.Y, []float64{0.5, 0.5, 0.0})
}

func TestGetShortCDF_EmptyDataset(t *testing.T) {
	cdf := GetShortCDF(NewDataset())

	assert.Equal(t, len(cdf.X), 0)
	assert.Equal(t, len(cdf.Y), 0)
}

func TestGetShortCDF_OnlyLongMessages(t *testing.T) {
	data := NewDataset()
	addDummySamples(data, 1500, 10.0)
	addDummySamples(data, 5000, 20.0)

	cdf := GetShortCDF(data)

	assert.Equal(t, len(cdf.X), 0)
}

func TestGetShortCDF_StopsAfterShortestTenPercent(t *testing.T) {
	data := NewDataset()
	addDummySamples(data, 10, 1.0, 2.0, 3.0)
	addDummySamples(data, 20, 4.0)
	for i := 0; i < 16; i += 1 {
		addDummySamples(data, 100, 50.0)
	}

	// 10% of 20 messages = 2: length 10 already exhausts the allowance, so
	// length 20 and beyond are not included.
	cdf := GetShortCDF(data)

	assert.DeepEqual(t, cdf.X, []float64{1.0, 2.0, 2.0, 3.0, 3.0})
	assert.DeepEqual(t, cdf.Y, []float64{2.0 / 3.0, 2.0 / 3.0, 1.0 / 3.0, 1.0 / 3.0, 0.0})
}
