package workloads

import (
	"fmt"

	"github.com/sarchlab/cachesim/emu"
)

// MXMBlock is the tiled matrix multiply workload. It computes the same
// C = A*B as MXM but walks the matrices tile by tile, which changes
// only the access order and therefore the cache locality, never the
// numeric result.
type MXMBlock struct {
	mxm    *MXM
	factor int
}

// NewMXMBlock creates a tiled matrix multiply workload with the given
// dimension and blocking factor. The dimension need not be a multiple
// of the factor; edge tiles are clipped.
func NewMXMBlock(dim, factor int) (*MXMBlock, error) {
	mxm, err := NewMXM(dim)
	if err != nil {
		return nil, err
	}

	if factor <= 0 {
		return nil, fmt.Errorf("%w: mxm_block requires a positive blocking factor, got %d",
			ErrConfig, factor)
	}

	return &MXMBlock{mxm: mxm, factor: factor}, nil
}

// Name returns "mxm_block".
func (w *MXMBlock) Name() string { return "mxm_block" }

// Dim returns the matrix dimension.
func (w *MXMBlock) Dim() int { return w.mxm.dim }

// Factor returns the blocking factor.
func (w *MXMBlock) Factor() int { return w.factor }

// Setup initializes A, B and C exactly as the unblocked multiply.
func (w *MXMBlock) Setup(cpu *emu.CPU) {
	w.mxm.Setup(cpu)
}

// Run iterates over (ii, jj, kk) tile origins stepping by the blocking
// factor. Within each tile it runs the mxm pattern restricted to the
// tile, accumulating into C: read C[i][j], reads of A[i][k] and
// B[k][j] over the tile's k range, write C[i][j].
func (w *MXMBlock) Run(cpu *emu.CPU) {
	d := w.mxm.dim
	f := w.factor

	for ii := 0; ii < d; ii += f {
		for jj := 0; jj < d; jj += f {
			for kk := 0; kk < d; kk += f {
				for i := ii; i < min(ii+f, d); i++ {
					for j := jj; j < min(jj+f, d); j++ {
						sum := cpu.LoadFloat64(w.mxm.cAddr(i, j))
						for k := kk; k < min(kk+f, d); k++ {
							a := cpu.LoadFloat64(w.mxm.aAddr(i, k))
							b := cpu.LoadFloat64(w.mxm.bAddr(k, j))
							sum += a * b
						}
						cpu.StoreFloat64(w.mxm.cAddr(i, j), sum)
					}
				}
			}
		}
	}
}

// Result reads the C matrix from RAM in row-major order.
func (w *MXMBlock) Result(cpu *emu.CPU) []float64 {
	return w.mxm.Result(cpu)
}

// Reference computes C directly. Each C element accumulates its
// products in increasing k order across tiles, the same left-to-right
// chain as the unblocked multiply, so the shared reference applies.
func (w *MXMBlock) Reference() []float64 {
	return mxmReference(w.mxm.dim)
}
