package emu

import (
	"math"

	"github.com/sarchlab/cachesim/cache"
)

// CPU issues memory accesses for a workload. Every load and store goes
// through the data cache; the cache refills from and writes through to
// this CPU's memory.
type CPU struct {
	memory *Memory
	cache  *cache.Cache

	instructionCount uint64
}

// NewCPU creates a CPU with a fresh memory and a cache of the given
// geometry in front of it. The configuration is validated here, before
// any access is simulated.
func NewCPU(config cache.Config) (*CPU, error) {
	memory := NewMemory()

	c, err := cache.New(config, memory)
	if err != nil {
		return nil, err
	}

	return &CPU{
		memory: memory,
		cache:  c,
	}, nil
}

// Memory returns the RAM behind the cache.
func (c *CPU) Memory() *Memory {
	return c.memory
}

// Cache returns the data cache.
func (c *CPU) Cache() *cache.Cache {
	return c.cache
}

// InstructionCount returns the number of loads and stores issued.
func (c *CPU) InstructionCount() uint64 {
	return c.instructionCount
}

// LoadFloat64 reads one 8-byte element through the cache.
func (c *CPU) LoadFloat64(addr uint64) float64 {
	c.instructionCount++
	result := c.cache.Read(addr, 8)
	return math.Float64frombits(result.Data)
}

// StoreFloat64 writes one 8-byte element through the cache.
func (c *CPU) StoreFloat64(addr uint64, value float64) {
	c.instructionCount++
	c.cache.Write(addr, 8, math.Float64bits(value))
}
