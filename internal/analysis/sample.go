package analysis

import (
	"math/rand"
	"sort"

	"fraud-eda/internal/dataset"
)

const (
	// MaxScatterPoints bounds the scatter sample.
	MaxScatterPoints = 10000
	// DefaultSeed makes the scatter sample reproducible across renders.
	DefaultSeed int64 = 42
)

// Sample draws min(max, v.Len()) rows of v without replacement using a
// generator seeded with seed. Views already within the bound are returned
// unchanged. The result keeps ascending row order.
func Sample(v dataset.View, max int, seed int64) dataset.View {
	n := v.Len()
	if max <= 0 || n <= max {
		return v
	}

	rng := rand.New(rand.NewSource(seed))
	pos := make([]int, n)
	for i := range pos {
		pos[i] = i
	}
	// Partial Fisher-Yates: the first max slots end up uniformly chosen.
	for i := 0; i < max; i++ {
		j := i + rng.Intn(n-i)
		pos[i], pos[j] = pos[j], pos[i]
	}
	chosen := pos[:max]
	sort.Ints(chosen)

	idx := make([]int, max)
	for i, p := range chosen {
		idx[i] = v.Index(p)
	}
	return dataset.NewView(v.Dataset(), idx)
}

// Point is one scatter marker.
type Point struct {
	Time   float64 `json:"time"`
	Amount float64 `json:"amount"`
	Class  int     `json:"class"`
}

// ScatterPoints lists the (Time, Amount, Class) triples of the view.
func ScatterPoints(v dataset.View) []Point {
	times, amounts, classes := v.Times(), v.Amounts(), v.Classes()
	out := make([]Point, v.Len())
	for i := range out {
		out[i] = Point{Time: times[i], Amount: amounts[i], Class: int(classes[i])}
	}
	return out
}
