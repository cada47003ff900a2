package cache

// BackingStore is the next level in the memory hierarchy. Misses
// refill from it and, under the write-through policy, every write is
// mirrored to it immediately. emu.Memory satisfies this interface.
type BackingStore interface {
	// Read fetches size bytes starting at addr.
	Read(addr uint64, size int) []byte
	// Write stores data starting at addr.
	Write(addr uint64, data []byte)
}
