package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/emu"
)

var _ = Describe("Memory", func() {
	var memory *emu.Memory

	BeforeEach(func() {
		memory = emu.NewMemory()
	})

	It("should read zero from untouched addresses", func() {
		Expect(memory.Read8(0)).To(Equal(uint8(0)))
		Expect(memory.Read64(0xFFFF_FFF0)).To(Equal(uint64(0)))
	})

	It("should round-trip bytes", func() {
		memory.Write8(0x1000, 0xAB)
		Expect(memory.Read8(0x1000)).To(Equal(uint8(0xAB)))
	})

	It("should store multi-byte values little-endian", func() {
		memory.Write32(0x2000, 0x12345678)

		Expect(memory.Read8(0x2000)).To(Equal(uint8(0x78)))
		Expect(memory.Read8(0x2001)).To(Equal(uint8(0x56)))
		Expect(memory.Read8(0x2002)).To(Equal(uint8(0x34)))
		Expect(memory.Read8(0x2003)).To(Equal(uint8(0x12)))
	})

	It("should round-trip 16, 32 and 64-bit values", func() {
		memory.Write16(0x10, 0xBEEF)
		memory.Write32(0x20, 0xDEADBEEF)
		memory.Write64(0x30, 0x0123456789ABCDEF)

		Expect(memory.Read16(0x10)).To(Equal(uint16(0xBEEF)))
		Expect(memory.Read32(0x20)).To(Equal(uint32(0xDEADBEEF)))
		Expect(memory.Read64(0x30)).To(Equal(uint64(0x0123456789ABCDEF)))
	})

	It("should handle values spanning page boundaries", func() {
		// Pages are 4096 bytes
		memory.Write64(4092, 0x1122334455667788)
		Expect(memory.Read64(4092)).To(Equal(uint64(0x1122334455667788)))
	})

	It("should round-trip float64 values exactly", func() {
		for _, v := range []float64{0, 1, -1, 3.14159, 1e300, -2.5e-10} {
			memory.WriteFloat64(0x100, v)
			Expect(memory.ReadFloat64(0x100)).To(Equal(v))
		}
	})

	It("should serve block-sized reads and writes", func() {
		block := make([]byte, 64)
		for i := range block {
			block[i] = byte(i)
		}

		memory.Write(0x3000, block)
		Expect(memory.Read(0x3000, 64)).To(Equal(block))
	})
})
