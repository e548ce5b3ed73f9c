package verify

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/oisee/z80core/pkg/inst"
)

// Config holds sweep configuration.
type Config struct {
	Prefixes   []inst.Prefix // Tables to sweep (defaults to all)
	NumWorkers int           // Number of parallel workers (defaults to NumCPU)
	Verbose    bool          // Print progress to Out
	Out        io.Writer     // Progress output (defaults to io.Discard)

	// Rounds of random instruction and register state to run after
	// the table sweep. Each round is reproducible from Seed.
	Rounds int
	Seed   uint64
}

// Report summarises a sweep.
type Report struct {
	Checked    int64       // opcodes and random rounds executed
	Failed     int64       // opcodes or rounds with at least one violation
	Groups     int         // distinct register-level behaviours
	Violations []Violation // sorted
	Elapsed    time.Duration
}

// OK reports whether the sweep found no violations.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// Run sweeps every opcode of the configured tables.
func Run(cfg Config) *Report {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = runtime.NumCPU()
	}
	if len(cfg.Prefixes) == 0 {
		cfg.Prefixes = inst.Prefixes()
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}

	pool := NewWorkerPool(cfg.NumWorkers)
	startTime := time.Now()

	for _, prefix := range cfg.Prefixes {
		ops := collectOps(prefix)
		if cfg.Verbose {
			fmt.Fprintf(cfg.Out, "=== Table %v: %d opcodes ===\n", prefix, len(ops))
			pool.RunOps(ops, cfg.Out)
		} else {
			pool.RunOps(ops, nil)
		}

		checked, failed := pool.Stats()
		if cfg.Verbose {
			elapsed := time.Since(startTime)
			fmt.Fprintf(cfg.Out, "  Checked: %d, Failed: %d, Elapsed: %s\n", checked, failed, elapsed.Round(time.Millisecond))
		}
	}

	if cfg.Rounds > 0 {
		if cfg.Verbose {
			fmt.Fprintf(cfg.Out, "=== Random: %d rounds, seed %d ===\n", cfg.Rounds, cfg.Seed)
			pool.RunRandom(cfg.Seed, cfg.Rounds, cfg.Out)
		} else {
			pool.RunRandom(cfg.Seed, cfg.Rounds, nil)
		}
	}

	checked, failed := pool.Stats()
	return &Report{
		Checked:    checked,
		Failed:     failed,
		Groups:     pool.Groups(),
		Violations: pool.Results.Violations(),
		Elapsed:    time.Since(startTime),
	}
}

// collectOps lists the instructions of one table, skipping escapes.
func collectOps(prefix inst.Prefix) []inst.Op {
	var ops []inst.Op
	table := inst.Table(prefix)
	for code := range table {
		if table[code].Next == inst.None {
			ops = append(ops, inst.Op{Prefix: prefix, Code: uint8(code)})
		}
	}
	return ops
}
