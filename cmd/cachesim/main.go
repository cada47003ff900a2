// Package main provides the cachesim command line interface.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/emu"
	"github.com/sarchlab/cachesim/workloads"
)

var (
	cacheSize   = flag.Int("cachesize", 65536, "size of cache (bytes, power of two)")
	blockSize   = flag.Int("blocksize", 64, "size of data block (bytes, power of two)")
	nway        = flag.Int("nway", 2, "n-way associativity of cache (1 = direct-mapped)")
	replacement = flag.String("replacement", "lru", "replacement policy: random, fifo, or lru")
	algorithm   = flag.String("algorithm", "mxm_block",
		"algorithm to run: "+strings.Join(workloads.Names(), ", "))
	dimension   = flag.Int("dimension", 480, "dimension of algorithmic matrix/vector")
	factor      = flag.Int("factor", 32, "blocking factor for mxm_block")
	seed        = flag.Int64("seed", 0, "seed for the random replacement policy")
	printResult = flag.Bool("print", false, "print the solution matrix/vector")
	configPath  = flag.String("config", "", "path to simulation configuration JSON file")
	verbose     = flag.Bool("v", false, "echo the simulation inputs")
)

// SimConfig holds the full configuration of one simulation run.
type SimConfig struct {
	Cache     cache.Config `json:"cache"`
	Algorithm string       `json:"algorithm"`
	Dimension int          `json:"dimension"`
	Factor    int          `json:"factor"`
}

// DefaultSimConfig returns the default run: blocked matrix multiply of
// dimension 480 on a 64KB 2-way LRU cache.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Cache:     cache.DefaultConfig(),
		Algorithm: "mxm_block",
		Dimension: 480,
		Factor:    32,
	}
}

// LoadSimConfig loads a SimConfig from a JSON file. Fields absent from
// the file keep their defaults.
func LoadSimConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read simulation config file: %w", err)
	}

	config := DefaultSimConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse simulation config file: %w", err)
	}

	return &config, nil
}

func main() {
	flag.Parse()

	config, err := buildConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(config, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildConfig assembles the run configuration: defaults, then the
// config file if given, then any flags set explicitly on the command
// line.
func buildConfig() (SimConfig, error) {
	config := DefaultSimConfig()

	if *configPath != "" {
		loaded, err := LoadSimConfig(*configPath)
		if err != nil {
			return SimConfig{}, err
		}
		config = *loaded
	}

	var parseErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cachesize":
			config.Cache.Size = *cacheSize
		case "blocksize":
			config.Cache.BlockSize = *blockSize
		case "nway":
			config.Cache.Associativity = *nway
		case "replacement":
			policy, err := cache.ParsePolicy(*replacement)
			if err != nil {
				parseErr = err
				return
			}
			config.Cache.Policy = policy
		case "seed":
			config.Cache.Seed = *seed
		case "algorithm":
			config.Algorithm = *algorithm
		case "dimension":
			config.Dimension = *dimension
		case "factor":
			config.Factor = *factor
		}
	})

	return config, parseErr
}

// run executes one simulation and writes the report to w. All
// configuration errors surface here before any access is simulated.
func run(config SimConfig, w io.Writer) error {
	workload, err := workloads.Build(config.Algorithm, config.Dimension, config.Factor)
	if err != nil {
		return err
	}

	cpu, err := emu.NewCPU(config.Cache)
	if err != nil {
		return err
	}

	workload.Setup(cpu)
	workload.Run(cpu)

	if *verbose {
		reportInputs(w, config, workload)
	}
	reportResults(w, cpu)

	if *printResult {
		printVector(w, workload.Result(cpu), workload.Dim())
	}

	return nil
}

func reportInputs(w io.Writer, config SimConfig, workload workloads.Workload) {
	fmt.Fprintln(w, "------------------INPUTS------------------")
	fmt.Fprintf(w, "Cache Size = %d\n", config.Cache.Size)
	fmt.Fprintf(w, "Block Size = %d\n", config.Cache.BlockSize)
	fmt.Fprintf(w, "Associativity = %d\n", config.Cache.Associativity)
	fmt.Fprintf(w, "Number of Sets = %d\n", config.Cache.NumSets())
	fmt.Fprintf(w, "Replacement Policy = %s\n", config.Cache.Policy)
	fmt.Fprintf(w, "Algorithm = %s\n", workload.Name())
	fmt.Fprintf(w, "Dimension = %d\n", workload.Dim())
	if blocked, ok := workload.(*workloads.MXMBlock); ok {
		fmt.Fprintf(w, "Blocking Factor = %d\n", blocked.Factor())
	}
}

func reportResults(w io.Writer, cpu *emu.CPU) {
	stats := cpu.Cache().Stats()

	fmt.Fprintln(w, "-----------------RESULTS------------------")
	fmt.Fprintf(w, "Instruction Count = %d\n", cpu.InstructionCount())
	fmt.Fprintf(w, "Total Accesses = %d\n", stats.Accesses())
	fmt.Fprintf(w, "Read Hits = %d\n", stats.ReadHits)
	fmt.Fprintf(w, "Read Misses = %d\n", stats.ReadMisses)
	fmt.Fprintf(w, "Write Hits = %d\n", stats.WriteHits)
	fmt.Fprintf(w, "Write Misses = %d\n", stats.WriteMisses)
	fmt.Fprintf(w, "Total Hits = %d\n", stats.Hits())
	fmt.Fprintf(w, "Total Misses = %d\n", stats.Misses())
	fmt.Fprintf(w, "Hit Rate = %.2f%%\n", stats.HitRate()*100)
}

// printVector prints the result, one matrix row (or the whole vector)
// per line.
func printVector(w io.Writer, result []float64, dim int) {
	cols := dim
	for i := 0; i < len(result); i += cols {
		end := min(i+cols, len(result))
		for j := i; j < end; j++ {
			if j > i {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "%g", result[j])
		}
		fmt.Fprintln(w)
	}
}
