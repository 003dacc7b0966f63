package analysis

import "github.com/iburimskiy/ferrofluid/internal/ferrofluid"

// SplitBands averages the bins into bass [0, n/6), mid [n/6, n/2) and
// treble [n/2, n). The small-wave drivers get the same values.
func SplitBands(freq []uint8) ferrofluid.BandEnergies {
	n := len(freq)
	return ferrofluid.NewBandEnergies(
		mean(freq[:n/6]),
		mean(freq[n/6:n/2]),
		mean(freq[n/2:]),
	)
}

func mean(v []uint8) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum int
	for _, x := range v {
		sum += int(x)
	}
	return float64(sum) / float64(len(v))
}
