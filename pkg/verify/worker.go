package verify

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/oisee/z80core/pkg/inst"
)

// WorkerPool checks opcodes in parallel. Each worker owns its own core.
type WorkerPool struct {
	NumWorkers int
	Results    *Table
	mu         sync.Mutex
	prints     *FingerprintMap
	checked    atomic.Int64
	failed     atomic.Int64
}

// NewWorkerPool creates a pool with the given number of workers.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		NumWorkers: numWorkers,
		Results:    NewTable(),
		prints:     NewFingerprintMap(2048),
	}
}

// Stats returns the number of opcodes checked and the number that
// produced at least one violation.
func (wp *WorkerPool) Stats() (checked, failed int64) {
	return wp.checked.Load(), wp.failed.Load()
}

// Groups returns the number of distinct behaviours seen so far.
func (wp *WorkerPool) Groups() int {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.prints.Len()
}

// RunOps distributes ops across workers. Failures are written to out
// as they are found when out is non-nil.
func (wp *WorkerPool) RunOps(ops []inst.Op, out io.Writer) {
	ch := make(chan inst.Op, len(ops))
	for _, op := range ops {
		ch <- op
	}
	close(ch)

	var wg sync.WaitGroup
	for i := 0; i < wp.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chk := newChecker()
			for op := range ch {
				wp.process(chk, op, out)
			}
		}()
	}
	wg.Wait()
}

// RunRandom checks rounds random instruction and state pairs derived
// from seed.
func (wp *WorkerPool) RunRandom(seed uint64, rounds int, out io.Writer) {
	ch := make(chan int, wp.NumWorkers*64)
	go func() {
		for i := 0; i < rounds; i++ {
			ch <- i
		}
		close(ch)
	}()

	var wg sync.WaitGroup
	for i := 0; i < wp.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chk := newChecker()
			for round := range ch {
				wp.checked.Add(1)
				violations := chk.checkRandom(seed, round)
				wp.record(violations, out)
			}
		}()
	}
	wg.Wait()
}

func (wp *WorkerPool) process(c *checker, op inst.Op, out io.Writer) {
	wp.checked.Add(1)
	violations := c.check(op)
	fp := c.fingerprint(op)

	wp.mu.Lock()
	wp.prints.Add(fp, op)
	wp.mu.Unlock()

	wp.record(violations, out)
}

func (wp *WorkerPool) record(violations []Violation, out io.Writer) {
	if len(violations) == 0 {
		return
	}
	wp.failed.Add(1)
	wp.Results.Add(violations...)

	if out != nil {
		wp.mu.Lock()
		for _, v := range violations {
			fmt.Fprintf(out, "  FAIL: %s\n", v)
		}
		wp.mu.Unlock()
	}
}
