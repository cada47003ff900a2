package workloads

import "github.com/sarchlab/cachesim/emu"

// daxpyAlpha is the scalar multiplier, matching the classic
// y = a*x + y benchmark constant.
const daxpyAlpha = 3.0

// DAXPY is the vector scalar-add-multiply workload: y[i] = a*x[i] + y[i].
// x and y are laid out back to back from address 0, so consecutive
// elements share cache lines and the trace is a single streaming pass.
type DAXPY struct {
	dim int
}

// NewDAXPY creates a daxpy workload of the given vector length.
func NewDAXPY(dim int) (*DAXPY, error) {
	if err := checkDim(dim); err != nil {
		return nil, err
	}
	return &DAXPY{dim: dim}, nil
}

// Name returns "daxpy".
func (w *DAXPY) Name() string { return "daxpy" }

// Dim returns the vector length.
func (w *DAXPY) Dim() int { return w.dim }

func (w *DAXPY) xAddr(i int) uint64 { return uint64(i) * wordSize }

func (w *DAXPY) yAddr(i int) uint64 { return uint64(w.dim+i) * wordSize }

// Setup initializes x[i] = i and y[i] = 2i directly in RAM.
func (w *DAXPY) Setup(cpu *emu.CPU) {
	memory := cpu.Memory()
	for i := 0; i < w.dim; i++ {
		memory.WriteFloat64(w.xAddr(i), float64(i))
		memory.WriteFloat64(w.yAddr(i), 2*float64(i))
	}
}

// Run issues, for each i: read x[i], read y[i], write y[i].
func (w *DAXPY) Run(cpu *emu.CPU) {
	for i := 0; i < w.dim; i++ {
		x := cpu.LoadFloat64(w.xAddr(i))
		y := cpu.LoadFloat64(w.yAddr(i))
		cpu.StoreFloat64(w.yAddr(i), daxpyAlpha*x+y)
	}
}

// Result reads the final y vector from RAM.
func (w *DAXPY) Result(cpu *emu.CPU) []float64 {
	memory := cpu.Memory()
	result := make([]float64, w.dim)
	for i := range result {
		result[i] = memory.ReadFloat64(w.yAddr(i))
	}
	return result
}

// Reference computes y without the memory system.
func (w *DAXPY) Reference() []float64 {
	result := make([]float64, w.dim)
	for i := range result {
		result[i] = daxpyAlpha*float64(i) + 2*float64(i)
	}
	return result
}
