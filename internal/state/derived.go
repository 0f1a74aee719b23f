package state

// This file holds the information derived from the hazard layout at setup time:
// the random placement itself and the adjacency counts.

import (
	"math/rand/v2"
)

// sampleHazards picks k distinct indices from [0, total) uniformly at random, so that every
// combination of k cells is equally likely.
//
// It runs the first k steps of a Fisher-Yates shuffle: after step i the prefix [0, i] is a
// uniform sample without replacement. There are no retries, so it always takes k draws.
func sampleHazards(rng *rand.Rand, total, k int) []int {
	indices := make([]int, total)
	for ii := range indices {
		indices[ii] = ii
	}
	for ii := 0; ii < k; ii++ {
		jj := ii + rng.IntN(total-ii)
		indices[ii], indices[jj] = indices[jj], indices[ii]
	}
	return indices[:k]
}

// computeAdjacency sets the count of every cell, including the ones holding a hazard,
// to the number of hazards in its Moore neighborhood.
func (b *Board) computeAdjacency() {
	for idx := range b.cells {
		if !b.cells[idx].hazard {
			continue
		}
		for neighbour := range b.NeighboursIter(b.posOf(idx)) {
			b.cells[b.index(neighbour)].count++
		}
	}
}
