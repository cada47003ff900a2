// Package cache models a single-level set-associative data cache on
// top of the Akita cache directory components.
package cache

import (
	"errors"
	"fmt"
	"math/rand"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// ErrConfig is wrapped by every configuration error. Geometry problems
// are detected once at construction time, never per access.
var ErrConfig = errors.New("invalid cache configuration")

// Policy selects how a full set chooses its eviction victim.
type Policy string

// The supported replacement policies.
const (
	PolicyRandom Policy = "random"
	PolicyFIFO   Policy = "fifo"
	PolicyLRU    Policy = "lru"
)

// ParsePolicy converts a policy name from the command line into a
// Policy value.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(name) {
	case PolicyRandom, PolicyFIFO, PolicyLRU:
		return Policy(name), nil
	default:
		return "", fmt.Errorf("%w: unknown replacement policy %q", ErrConfig, name)
	}
}

// Config holds cache configuration parameters.
type Config struct {
	// Size in bytes. Must be a power of two.
	Size int `json:"cache_size"`
	// BlockSize in bytes (cache line size). Must be a power of two.
	BlockSize int `json:"block_size"`
	// Associativity (number of ways). 1 means direct-mapped.
	Associativity int `json:"associativity"`
	// Policy is the replacement policy for full sets.
	Policy Policy `json:"replacement"`
	// Seed drives the random replacement policy so eviction sequences
	// are reproducible.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns the default geometry: 64KB, 64B lines, 2-way,
// LRU replacement.
func DefaultConfig() Config {
	return Config{
		Size:          64 * 1024,
		BlockSize:     64,
		Associativity: 2,
		Policy:        PolicyLRU,
	}
}

// NumSets returns the number of sets the geometry implies.
func (c Config) NumSets() int {
	return c.Size / (c.BlockSize * c.Associativity)
}

// Validate checks the geometry. It returns an error wrapping ErrConfig
// if the configuration cannot form a consistent power-of-two cache.
func (c Config) Validate() error {
	if !isPowerOfTwo(c.Size) {
		return fmt.Errorf("%w: cache size %d is not a power of two", ErrConfig, c.Size)
	}

	if !isPowerOfTwo(c.BlockSize) {
		return fmt.Errorf("%w: block size %d is not a power of two", ErrConfig, c.BlockSize)
	}

	// A line must hold at least one 8-byte word; accesses never span
	// two lines.
	if c.BlockSize < 8 {
		return fmt.Errorf("%w: block size %d cannot hold an 8-byte word", ErrConfig, c.BlockSize)
	}

	if c.Associativity < 1 {
		return fmt.Errorf("%w: associativity %d must be at least 1", ErrConfig, c.Associativity)
	}

	if c.Size%(c.BlockSize*c.Associativity) != 0 {
		return fmt.Errorf(
			"%w: %d-way sets of %dB blocks do not divide a %dB cache",
			ErrConfig, c.Associativity, c.BlockSize, c.Size)
	}

	if !isPowerOfTwo(c.NumSets()) {
		return fmt.Errorf("%w: set count %d is not a power of two", ErrConfig, c.NumSets())
	}

	if _, err := ParsePolicy(string(c.Policy)); err != nil {
		return err
	}

	return nil
}

// AccessResult contains the result of a cache access.
type AccessResult struct {
	// Hit indicates whether the access was a cache hit.
	Hit bool
	// Data is the data read (for load operations).
	Data uint64
	// Evicted is true if a resident block was evicted.
	Evicted bool
	// EvictedAddr is the block-aligned address of the evicted block.
	EvictedAddr uint64
}

// Statistics holds cache access counts, split by access type.
type Statistics struct {
	Reads       uint64
	Writes      uint64
	ReadHits    uint64
	ReadMisses  uint64
	WriteHits   uint64
	WriteMisses uint64
	Evictions   uint64
}

// Hits returns the combined read and write hit count.
func (s Statistics) Hits() uint64 {
	return s.ReadHits + s.WriteHits
}

// Misses returns the combined read and write miss count.
func (s Statistics) Misses() uint64 {
	return s.ReadMisses + s.WriteMisses
}

// Accesses returns the total number of accesses.
func (s Statistics) Accesses() uint64 {
	return s.Reads + s.Writes
}

// HitRate returns hits over total accesses, or 0 for an idle cache.
func (s Statistics) HitRate() float64 {
	if s.Accesses() == 0 {
		return 0
	}

	return float64(s.Hits()) / float64(s.Accesses())
}

// Cache is a single-level, set-associative, write-through data cache.
type Cache struct {
	config Config

	// Akita cache directory for tag and replacement state
	directory *akitacache.DirectoryImpl

	// Data storage, indexed by setID*associativity + wayID
	dataStore [][]byte

	// Per-block install clock values, the FIFO ordering key. LRU
	// recency lives in the directory's own visit queue.
	arrivals *arrivalTable

	// Monotonic access clock, bumped once per access
	clock uint64

	stats   Statistics
	backing BackingStore
}

// New creates a cache with the given geometry over the given backing
// store. The configuration is validated here; accesses never fail.
func New(config Config, backing BackingStore) (*Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if backing == nil {
		return nil, fmt.Errorf("%w: backing store is required", ErrConfig)
	}

	numSets := config.NumSets()
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize)
	}

	arrivals := newArrivalTable(numSets, config.Associativity)

	var finder akitacache.VictimFinder
	switch config.Policy {
	case PolicyFIFO:
		finder = NewFIFOVictimFinder(arrivals)
	case PolicyRandom:
		finder = NewRandomVictimFinder(rand.New(rand.NewSource(config.Seed)))
	default:
		finder = akitacache.NewLRUVictimFinder()
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			finder,
		),
		dataStore: dataStore,
		arrivals:  arrivals,
		backing:   backing,
	}, nil
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears cache statistics.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

// Decompose splits an address under this cache's geometry.
func (c *Cache) Decompose(addr uint64) Fields {
	return Decompose(addr, c.config.BlockSize, c.config.NumSets())
}

// blockIndex computes the index into dataStore for a block.
func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

// Read performs a cache read of size bytes at addr.
func (c *Cache) Read(addr uint64, size int) AccessResult {
	c.stats.Reads++
	c.clock++

	fields := c.Decompose(addr)
	blockAddr := addr - uint64(fields.Offset)

	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		c.stats.ReadHits++
		c.directory.Visit(block)

		data := extractData(c.dataStore[c.blockIndex(block)], uint64(fields.Offset), size)

		return AccessResult{Hit: true, Data: data}
	}

	c.stats.ReadMisses++

	return c.handleMiss(addr, size, false, 0)
}

// Write performs a cache write of size bytes at addr. The cache is
// write-through: the bytes reach the backing store on every write, so
// evicting any block is always safe.
func (c *Cache) Write(addr uint64, size int, data uint64) AccessResult {
	c.stats.Writes++
	c.clock++

	fields := c.Decompose(addr)
	blockAddr := addr - uint64(fields.Offset)

	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		c.stats.WriteHits++
		c.directory.Visit(block)

		storeData(c.dataStore[c.blockIndex(block)], uint64(fields.Offset), size, data)
		c.writeThrough(addr, size, data)

		return AccessResult{Hit: true}
	}

	c.stats.WriteMisses++

	return c.handleMiss(addr, size, true, data)
}

// handleMiss refills the target block from the backing store,
// evicting per the configured policy when the set is full.
func (c *Cache) handleMiss(addr uint64, size int, isWrite bool, writeData uint64) AccessResult {
	result := AccessResult{}

	fields := c.Decompose(addr)
	blockAddr := addr - uint64(fields.Offset)

	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		// Cannot happen: no block is ever locked.
		return result
	}

	victimData := c.dataStore[c.blockIndex(victim)]

	if victim.IsValid {
		c.stats.Evictions++
		result.Evicted = true
		result.EvictedAddr = victim.Tag
	}

	// Fetch the full aligned block
	copy(victimData, c.backing.Read(blockAddr, c.config.BlockSize))

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false

	c.arrivals.install(victim, c.clock)
	c.directory.Visit(victim)

	offset := uint64(fields.Offset)
	if isWrite {
		storeData(victimData, offset, size, writeData)
		c.writeThrough(addr, size, writeData)
	} else {
		result.Data = extractData(victimData, offset, size)
	}

	return result
}

// writeThrough mirrors a write to the backing store immediately.
func (c *Cache) writeThrough(addr uint64, size int, data uint64) {
	buf := make([]byte, size)
	for i := 0; i < size; i++ {
		buf[i] = byte(data >> (i * 8))
	}

	c.backing.Write(addr, buf)
}

// Invalidate marks the cache line holding addr as invalid.
func (c *Cache) Invalidate(addr uint64) {
	blockAddr := BlockAlign(addr, c.config.BlockSize)
	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		block.IsValid = false
	}
}

// Flush invalidates all cache lines. There is nothing to write back:
// the backing store already holds every written byte.
func (c *Cache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

// Reset invalidates all cache lines and clears statistics and the
// access clock.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.arrivals.reset()
	c.stats = Statistics{}
	c.clock = 0
}

// extractData extracts a little-endian value of the given size from a
// byte slice.
func extractData(data []byte, offset uint64, size int) uint64 {
	if data == nil || int(offset)+size > len(data) {
		return 0
	}

	var result uint64
	for i := 0; i < size; i++ {
		result |= uint64(data[int(offset)+i]) << (i * 8)
	}
	return result
}

// storeData stores a little-endian value of the given size into a
// byte slice.
func storeData(data []byte, offset uint64, size int, value uint64) {
	if data == nil || int(offset)+size > len(data) {
		return
	}

	for i := 0; i < size; i++ {
		data[int(offset)+i] = byte(value >> (i * 8))
	}
}
