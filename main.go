// Package main provides the entry point for CacheSim.
// CacheSim emulates a single-level set-associative data cache between
// a processor model and a flat RAM store, predicting hit/miss behavior
// of vector and matrix workloads.
//
// For the full CLI, use: go run ./cmd/cachesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("CacheSim - Set-Associative Data Cache Simulator")
	fmt.Println("")
	fmt.Println("Usage: cachesim [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -cachesize    Cache size in bytes (default 65536)")
	fmt.Println("  -blocksize    Block size in bytes (default 64)")
	fmt.Println("  -nway         Associativity (default 2)")
	fmt.Println("  -replacement  Replacement policy: random, fifo, lru (default lru)")
	fmt.Println("  -algorithm    Algorithm: daxpy, mxm, mxm_block (default mxm_block)")
	fmt.Println("  -dimension    Matrix/vector dimension (default 480)")
	fmt.Println("  -factor       Blocking factor for mxm_block (default 32)")
	fmt.Println("  -print        Print the solution matrix/vector")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/cachesim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/cachesim' instead.")
	}
}
