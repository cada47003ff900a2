// Package workloads generates the memory access traces that drive the
// cache: each workload issues the element reads and writes of its
// algorithm, in the algorithm's natural loop order, through the CPU.
package workloads

import (
	"errors"
	"fmt"

	"github.com/sarchlab/cachesim/emu"
)

// ErrUnknownWorkload reports an unsupported algorithm name.
var ErrUnknownWorkload = errors.New("unknown workload")

// ErrConfig is wrapped by workload configuration errors. Like cache
// geometry errors, these are detected before any access is simulated.
var ErrConfig = errors.New("invalid workload configuration")

// wordSize is the size of one array element in bytes (float64).
const wordSize = 8

// A Workload emits a deterministic access trace for one algorithm.
type Workload interface {
	// Name is the algorithm name as selected on the command line.
	Name() string
	// Dim is the vector length or matrix dimension.
	Dim() int
	// Setup writes the operand data directly into RAM, bypassing the
	// cache, so the traced accesses are the compute loop only.
	Setup(cpu *emu.CPU)
	// Run issues the full access trace through the cache.
	Run(cpu *emu.CPU)
	// Result reads the computed output back from RAM. Write-through
	// keeps RAM authoritative, so no flush is needed first.
	Result(cpu *emu.CPU) []float64
	// Reference computes the same output without any cache or RAM
	// involved. The simulated result must match it exactly.
	Reference() []float64
}

// Build constructs the named workload. dim is the problem dimension
// for all workloads; factor is the blocking factor, consulted only by
// mxm_block.
func Build(name string, dim, factor int) (Workload, error) {
	switch name {
	case "daxpy":
		return NewDAXPY(dim)
	case "mxm":
		return NewMXM(dim)
	case "mxm_block":
		return NewMXMBlock(dim, factor)
	default:
		return nil, fmt.Errorf("%w: %q (want daxpy, mxm, or mxm_block)",
			ErrUnknownWorkload, name)
	}
}

// Names lists the supported algorithm names.
func Names() []string {
	return []string{"daxpy", "mxm", "mxm_block"}
}

func checkDim(dim int) error {
	if dim <= 0 {
		return fmt.Errorf("%w: dimension %d must be positive", ErrConfig, dim)
	}
	return nil
}

// elemAddr returns the byte address of element (i, j) of a row-major
// dim x dim matrix starting at base.
func elemAddr(base uint64, dim, i, j int) uint64 {
	return base + uint64(i*dim+j)*wordSize
}
