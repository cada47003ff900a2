package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/emu"
)

// twoWayCache builds a 2-way cache with a single set, so every block
// address competes for the same two ways.
func twoWayCache(policy cache.Policy, seed int64) *cache.Cache {
	c, err := cache.New(cache.Config{
		Size:          128,
		BlockSize:     64,
		Associativity: 2,
		Policy:        policy,
		Seed:          seed,
	}, emu.NewMemory())
	Expect(err).ToNot(HaveOccurred())

	return c
}

var _ = Describe("Replacement policies", func() {
	// Block-aligned addresses; all map to the one set.
	const (
		blockA = 0
		blockB = 64
		blockC = 128
	)

	Describe("FIFO", func() {
		It("should evict the oldest installed block regardless of hits", func() {
			c := twoWayCache(cache.PolicyFIFO, 0)

			c.Read(blockA, 8) // install A
			c.Read(blockB, 8) // install B
			c.Read(blockA, 8) // hit A; arrival order unchanged

			c.Read(blockC, 8) // set full: evicts A, the oldest

			Expect(c.Read(blockB, 8).Hit).To(BeTrue())
			Expect(c.Read(blockA, 8).Hit).To(BeFalse())
		})

		It("should evict in arrival order across refills", func() {
			c := twoWayCache(cache.PolicyFIFO, 0)

			c.Read(blockA, 8)
			c.Read(blockB, 8)
			c.Read(blockC, 8) // evicts A; resident: B, C

			// B is now the oldest occupant.
			result := c.Read(blockA, 8)
			Expect(result.Hit).To(BeFalse())
			Expect(result.Evicted).To(BeTrue())
			Expect(result.EvictedAddr).To(Equal(uint64(blockB)))
		})

		It("should fill empty ways before evicting", func() {
			c := twoWayCache(cache.PolicyFIFO, 0)

			c.Read(blockA, 8)
			c.Read(blockB, 8)

			Expect(c.Stats().Evictions).To(Equal(uint64(0)))
			Expect(c.Read(blockA, 8).Hit).To(BeTrue())
			Expect(c.Read(blockB, 8).Hit).To(BeTrue())
		})
	})

	Describe("LRU", func() {
		It("should evict the least recently used block", func() {
			c := twoWayCache(cache.PolicyLRU, 0)

			c.Read(blockA, 8) // install A
			c.Read(blockB, 8) // install B
			c.Read(blockA, 8) // hit A: B is now least recently used

			c.Read(blockC, 8) // evicts B

			Expect(c.Read(blockA, 8).Hit).To(BeTrue())
			Expect(c.Read(blockB, 8).Hit).To(BeFalse())
		})

		It("should refresh recency on write hits too", func() {
			c := twoWayCache(cache.PolicyLRU, 0)

			c.Read(blockA, 8)
			c.Read(blockB, 8)
			c.Write(blockA, 8, 1) // write hit refreshes A

			result := c.Read(blockC, 8)
			Expect(result.EvictedAddr).To(Equal(uint64(blockB)))
		})
	})

	Describe("Random", func() {
		It("should produce identical eviction sequences under one seed", func() {
			trace := func(seed int64) cache.Statistics {
				c, err := cache.New(cache.Config{
					Size:          1024,
					BlockSize:     64,
					Associativity: 4,
					Policy:        cache.PolicyRandom,
					Seed:          seed,
				}, emu.NewMemory())
				Expect(err).ToNot(HaveOccurred())

				// 4 sets, 4 ways: walk 8 conflicting blocks repeatedly
				for round := 0; round < 16; round++ {
					for i := 0; i < 8; i++ {
						c.Read(uint64(i*256), 8)
					}
				}

				return c.Stats()
			}

			first := trace(42)
			second := trace(42)
			Expect(second).To(Equal(first))
		})

		It("should fill empty ways before evicting", func() {
			c := twoWayCache(cache.PolicyRandom, 7)

			c.Read(blockA, 8)
			c.Read(blockB, 8)

			Expect(c.Stats().Evictions).To(Equal(uint64(0)))
			Expect(c.Read(blockA, 8).Hit).To(BeTrue())
			Expect(c.Read(blockB, 8).Hit).To(BeTrue())
		})
	})
})
