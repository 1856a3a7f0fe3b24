package listack

import(
	"math"
	"sort"
)

// selectTopFrames ranks frames by peak intensity, descending, and
// keeps the top ceil(fsr * N). The sort is stable, so frames with
// equal peaks keep their sequence order.
func selectTopFrames(peaks []float64, fsr float64) []int {
	idxs := allIndices(len(peaks))
	sort.SliceStable(idxs, func(i, j int) bool {
		return peaks[idxs[i]] > peaks[idxs[j]]
	})

	keep := int(math.Ceil(fsr * float64(len(peaks))))
	if keep > len(idxs) {
		keep = len(idxs)
	}
	return idxs[:keep]
}
