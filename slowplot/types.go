package slowplot

// Dataset accumulates per-length RTT samples merged from one or more dump files.
type Dataset struct {
	RTTs          map[int][]float64
	Counts        map[int]int
	TotalMessages int
}

func NewDataset() *Dataset {
	return &Dataset{
		RTTs:   map[int][]float64{},
		Counts: map[int]int{},
	}
}

// Bucket records the largest message length of a bucket and the cumulative
// fraction of all messages with that length or smaller.
type Bucket struct {
	Length  int
	CumFrac float64
}

// Digest holds per-bucket series, all parallel and indexed by bucket.
type Digest struct {
	Lengths []int
	CumFrac []float64
	Counts  []int

	P50  []float64
	P99  []float64
	P999 []float64

	Slow50  []float64
	Slow99  []float64
	Slow999 []float64
}

// CDF holds the step coordinates of a complementary CDF, descending from 1 to 0.
type CDF struct {
	X []float64
	Y []float64
}
