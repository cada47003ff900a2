package cache

import (
	"math/rand"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// arrivalTable records, for every resident block, the value of the
// cache's access clock when the block was installed. It is the FIFO
// ordering key only; LRU recency is kept by the directory's own visit
// queue. Indexed the same way as the cache's data store,
// setID*associativity + wayID.
type arrivalTable struct {
	ways    int
	arrival []uint64
}

func newArrivalTable(numSets, ways int) *arrivalTable {
	return &arrivalTable{
		ways:    ways,
		arrival: make([]uint64, numSets*ways),
	}
}

func (a *arrivalTable) index(block *akitacache.Block) int {
	return block.SetID*a.ways + block.WayID
}

func (a *arrivalTable) install(block *akitacache.Block, now uint64) {
	a.arrival[a.index(block)] = now
}

func (a *arrivalTable) reset() {
	for i := range a.arrival {
		a.arrival[i] = 0
	}
}

// FIFOVictimFinder evicts the block that has been resident the
// longest, ignoring any hits it received after installation.
type FIFOVictimFinder struct {
	arrivals *arrivalTable
}

// NewFIFOVictimFinder returns a FIFO evictor backed by the given
// arrival table.
func NewFIFOVictimFinder(arrivals *arrivalTable) *FIFOVictimFinder {
	return &FIFOVictimFinder{arrivals: arrivals}
}

// FindVictim returns the oldest installed block in the set. Empty ways
// are consumed first, lowest way ID wins ties.
func (f *FIFOVictimFinder) FindVictim(set *akitacache.Set) *akitacache.Block {
	if block := emptyWay(set); block != nil {
		return block
	}

	var victim *akitacache.Block
	for _, block := range set.Blocks {
		if victim == nil ||
			f.arrivals.arrival[f.arrivals.index(block)] <
				f.arrivals.arrival[f.arrivals.index(victim)] {
			victim = block
		}
	}

	return victim
}

// RandomVictimFinder evicts a uniformly random way. The random source
// is injected so eviction sequences are reproducible under a fixed
// seed.
type RandomVictimFinder struct {
	rng *rand.Rand
}

// NewRandomVictimFinder returns a random evictor driven by the given
// source.
func NewRandomVictimFinder(rng *rand.Rand) *RandomVictimFinder {
	return &RandomVictimFinder{rng: rng}
}

// FindVictim returns a random block in the set. Empty ways are still
// consumed first so the policy only randomizes true evictions.
func (r *RandomVictimFinder) FindVictim(set *akitacache.Set) *akitacache.Block {
	if block := emptyWay(set); block != nil {
		return block
	}

	return set.Blocks[r.rng.Intn(len(set.Blocks))]
}

// emptyWay returns the lowest-way invalid block in the set, or nil if
// the set is full.
func emptyWay(set *akitacache.Set) *akitacache.Block {
	for _, block := range set.Blocks {
		if !block.IsValid {
			return block
		}
	}

	return nil
}
