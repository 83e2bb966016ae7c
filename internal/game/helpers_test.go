package game

// scriptedRand replays fixed values, each taken modulo n. It yields 0 once
// the script runs out.
type scriptedRand struct {
	vals []int
	i    int
}

func (r *scriptedRand) Intn(n int) int {
	if r.i >= len(r.vals) {
		return 0
	}
	v := r.vals[r.i] % n
	r.i++
	return v
}

func charCounts(tiles []Tile) map[string]int {
	counts := make(map[string]int)
	for _, t := range tiles {
		counts[t.Char]++
	}
	return counts
}

func runeCounts(s string) map[string]int {
	counts := make(map[string]int)
	for _, r := range s {
		counts[string(r)]++
	}
	return counts
}
