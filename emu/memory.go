// Package emu provides the processor-side model: a flat RAM store and
// a CPU that drives the cache with memory accesses.
package emu

import "math"

const pageSize = 4096

// Memory is a flat, byte-addressable store. Pages are allocated on
// first touch, so the address space is effectively unbounded and
// reads of untouched memory return zero.
type Memory struct {
	pages map[uint64][]byte
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{
		pages: make(map[uint64][]byte),
	}
}

// page returns the page holding addr, allocating it if needed.
func (m *Memory) page(addr uint64) []byte {
	pageID := addr / pageSize
	p, ok := m.pages[pageID]
	if !ok {
		p = make([]byte, pageSize)
		m.pages[pageID] = p
	}
	return p
}

// Read8 reads one byte.
func (m *Memory) Read8(addr uint64) uint8 {
	p, ok := m.pages[addr/pageSize]
	if !ok {
		return 0
	}
	return p[addr%pageSize]
}

// Write8 writes one byte.
func (m *Memory) Write8(addr uint64, value uint8) {
	m.page(addr)[addr%pageSize] = value
}

// Read16 reads a little-endian 16-bit value.
func (m *Memory) Read16(addr uint64) uint16 {
	return uint16(m.Read8(addr)) |
		uint16(m.Read8(addr+1))<<8
}

// Write16 writes a little-endian 16-bit value.
func (m *Memory) Write16(addr uint64, value uint16) {
	m.Write8(addr, uint8(value))
	m.Write8(addr+1, uint8(value>>8))
}

// Read32 reads a little-endian 32-bit value.
func (m *Memory) Read32(addr uint64) uint32 {
	return uint32(m.Read16(addr)) |
		uint32(m.Read16(addr+2))<<16
}

// Write32 writes a little-endian 32-bit value.
func (m *Memory) Write32(addr uint64, value uint32) {
	m.Write16(addr, uint16(value))
	m.Write16(addr+2, uint16(value>>16))
}

// Read64 reads a little-endian 64-bit value.
func (m *Memory) Read64(addr uint64) uint64 {
	return uint64(m.Read32(addr)) |
		uint64(m.Read32(addr+4))<<32
}

// Write64 writes a little-endian 64-bit value.
func (m *Memory) Write64(addr uint64, value uint64) {
	m.Write32(addr, uint32(value))
	m.Write32(addr+4, uint32(value>>32))
}

// Read fetches size bytes starting at addr. Together with Write it
// lets Memory serve as the cache's backing store.
func (m *Memory) Read(addr uint64, size int) []byte {
	data := make([]byte, size)
	for i := 0; i < size; i++ {
		data[i] = m.Read8(addr + uint64(i))
	}
	return data
}

// Write stores data starting at addr.
func (m *Memory) Write(addr uint64, data []byte) {
	for i, b := range data {
		m.Write8(addr+uint64(i), b)
	}
}

// ReadFloat64 reads an IEEE 754 double.
func (m *Memory) ReadFloat64(addr uint64) float64 {
	return math.Float64frombits(m.Read64(addr))
}

// WriteFloat64 writes an IEEE 754 double.
func (m *Memory) WriteFloat64(addr uint64, value float64) {
	m.Write64(addr, math.Float64bits(value))
}
