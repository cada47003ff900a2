package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/emu"
)

var _ = Describe("CPU", func() {
	var cpu *emu.CPU

	BeforeEach(func() {
		var err error
		cpu, err = emu.NewCPU(cache.Config{
			Size:          1024,
			BlockSize:     64,
			Associativity: 2,
			Policy:        cache.PolicyLRU,
		})
		Expect(err).ToNot(HaveOccurred())
	})

	It("should reject an invalid cache geometry", func() {
		_, err := emu.NewCPU(cache.Config{
			Size:          1000,
			BlockSize:     64,
			Associativity: 2,
			Policy:        cache.PolicyLRU,
		})
		Expect(err).To(MatchError(cache.ErrConfig))
	})

	It("should load values previously stored", func() {
		cpu.StoreFloat64(0x100, 2.75)
		Expect(cpu.LoadFloat64(0x100)).To(Equal(2.75))
	})

	It("should load values placed directly in RAM", func() {
		cpu.Memory().WriteFloat64(0x200, 42.5)
		Expect(cpu.LoadFloat64(0x200)).To(Equal(42.5))
	})

	It("should write through to RAM", func() {
		cpu.StoreFloat64(0x300, -1.25)
		Expect(cpu.Memory().ReadFloat64(0x300)).To(Equal(-1.25))
	})

	It("should count every load and store", func() {
		cpu.StoreFloat64(0, 1)
		cpu.LoadFloat64(0)
		cpu.LoadFloat64(8)

		Expect(cpu.InstructionCount()).To(Equal(uint64(3)))
		Expect(cpu.Cache().Stats().Accesses()).To(Equal(uint64(3)))
	})

	It("should miss once per block for a streaming read", func() {
		for i := uint64(0); i < 16; i++ {
			cpu.LoadFloat64(i * 8) // 16 elements, 2 blocks
		}

		stats := cpu.Cache().Stats()
		Expect(stats.ReadMisses).To(Equal(uint64(2)))
		Expect(stats.ReadHits).To(Equal(uint64(14)))
	})
})
