package scoring

import "sort"

// Rank orders results by score, highest first. Equal scores keep their input order.
func Rank(results []Result) []Result {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
