package workloads

import "github.com/sarchlab/cachesim/emu"

// MXM is the dense matrix multiply workload C = A*B with the naive
// i, j, k loop order. A, B and C are dim x dim row-major matrices laid
// out contiguously from address 0.
type MXM struct {
	dim int
}

// NewMXM creates a matrix multiply workload of the given dimension.
func NewMXM(dim int) (*MXM, error) {
	if err := checkDim(dim); err != nil {
		return nil, err
	}
	return &MXM{dim: dim}, nil
}

// Name returns "mxm".
func (w *MXM) Name() string { return "mxm" }

// Dim returns the matrix dimension.
func (w *MXM) Dim() int { return w.dim }

func (w *MXM) aAddr(i, j int) uint64 {
	return elemAddr(0, w.dim, i, j)
}

func (w *MXM) bAddr(i, j int) uint64 {
	return elemAddr(uint64(w.dim*w.dim)*wordSize, w.dim, i, j)
}

func (w *MXM) cAddr(i, j int) uint64 {
	return elemAddr(uint64(2*w.dim*w.dim)*wordSize, w.dim, i, j)
}

// Setup initializes A[i][j] = v and B[i][j] = 2v, with v counting up
// in row-major order, and zeroes C, all directly in RAM.
func (w *MXM) Setup(cpu *emu.CPU) {
	memory := cpu.Memory()
	val := 0.0
	for i := 0; i < w.dim; i++ {
		for j := 0; j < w.dim; j++ {
			memory.WriteFloat64(w.aAddr(i, j), val)
			memory.WriteFloat64(w.bAddr(i, j), 2*val)
			memory.WriteFloat64(w.cAddr(i, j), 0)
			val++
		}
	}
}

// Run issues, for each (i, j): reads of A[i][k] and B[k][j] over k
// with a register accumulator, then a single write of C[i][j].
func (w *MXM) Run(cpu *emu.CPU) {
	for i := 0; i < w.dim; i++ {
		for j := 0; j < w.dim; j++ {
			sum := 0.0
			for k := 0; k < w.dim; k++ {
				a := cpu.LoadFloat64(w.aAddr(i, k))
				b := cpu.LoadFloat64(w.bAddr(k, j))
				sum += a * b
			}
			cpu.StoreFloat64(w.cAddr(i, j), sum)
		}
	}
}

// Result reads the C matrix from RAM in row-major order.
func (w *MXM) Result(cpu *emu.CPU) []float64 {
	memory := cpu.Memory()
	result := make([]float64, w.dim*w.dim)
	for i := 0; i < w.dim; i++ {
		for j := 0; j < w.dim; j++ {
			result[i*w.dim+j] = memory.ReadFloat64(w.cAddr(i, j))
		}
	}
	return result
}

// Reference computes C directly, accumulating in the same k order as
// the traced loop so the results match bit for bit.
func (w *MXM) Reference() []float64 {
	return mxmReference(w.dim)
}

// mxmReference is the uncached triple-loop multiply over the standard
// initial data. Shared by mxm and mxm_block, whose results are
// identical by construction.
func mxmReference(dim int) []float64 {
	a := make([]float64, dim*dim)
	b := make([]float64, dim*dim)
	val := 0.0
	for i := range a {
		a[i] = val
		b[i] = 2 * val
		val++
	}

	c := make([]float64, dim*dim)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			sum := 0.0
			for k := 0; k < dim; k++ {
				sum += a[i*dim+k] * b[k*dim+j]
			}
			c[i*dim+j] = sum
		}
	}
	return c
}
