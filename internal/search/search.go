// Package search drives the multi-variant encoder: a worker pool tries
// every (partition code, line limit, color options) combination the caller
// supplies and keeps whichever one minimizes squared quantization error.
package search

import (
	"sync"
	"sync/atomic"

	"github.com/twim/twim/internal/partition"
	"github.com/twim/twim/internal/ubercache"
)

// CodecParams is the subset of the root package's CodecParams a simulation
// task needs: it must be constructible for an image size and mutable in
// place so one task can sweep every color code without reallocating.
type CodecParams interface {
	partition.Params
	SetPartitionCode(code int32)
	SetColorCode(code int32)
	SetLineLimit(limit int32)
}

// Variant is one point in the tuning space a search sweeps over: a
// partition code, a line limit, and a bitmask of color codes to try.
type Variant struct {
	PartitionCode int32
	LineLimit     int32
	ColorOptions  uint64
}

const maxColorCode = 17

// noColorCode marks a task that never found a viable color code.
const noColorCode = ^uint32(0)

// Task builds one partition under Variant's tuning and sweeps every color
// code named in ColorOptions, keeping the one with lowest squared error.
type Task struct {
	TargetSize int
	Variant    Variant
	Uber       *ubercache.UberCache
	CP         CodecParams

	BestSqe       float32
	BestColorCode uint32
	Partition     *partition.Partition
}

// NewCodecParams constructs a fresh CodecParams for an image, used by a
// caller that wants to hand Task a concrete type without this package
// importing the root package (which itself imports this one).
type NewCodecParams func(width, height int32) CodecParams

// NewTask returns a task ready to Run, with cp freshly constructed via
// newParams and configured for variant's partition code and line limit.
func NewTask(targetSize int, variant Variant, uber *ubercache.UberCache, newParams NewCodecParams) *Task {
	cp := newParams(int32(uber.Width), int32(uber.Height))
	cp.SetPartitionCode(variant.PartitionCode)
	cp.SetLineLimit(variant.LineLimit + 1)
	return &Task{
		TargetSize:    targetSize,
		Variant:       variant,
		Uber:          uber,
		CP:            cp,
		BestSqe:       noSimulation,
		BestColorCode: noColorCode,
	}
}

const noSimulation = float32(1e35)

// Run builds the partition once, then tries every color code set in
// Variant.ColorOptions, recording the best. When the partition is too small
// to have any non-leaf fragment, SimulateEncode returns the same noSimulation
// sentinel for every color code; the first color code tried is still kept so
// the task always reports a usable result rather than none at all (every
// variant degrading to a single filled region is a valid, if poor, encode —
// not a failure).
func (t *Task) Run() {
	t.Partition = partition.New(t.Uber, t.CP, t.TargetSize)
	tried := false
	for colorCode := int32(0); colorCode < maxColorCode; colorCode++ {
		if t.Variant.ColorOptions&(uint64(1)<<uint(colorCode)) == 0 {
			continue
		}
		t.CP.SetColorCode(colorCode)
		sqe := t.Partition.SimulateEncode(t.CP, t.TargetSize)
		if !tried || sqe < t.BestSqe {
			t.BestSqe = sqe
			t.BestColorCode = uint32(colorCode)
			tried = true
		}
	}
}

// Executor runs a fixed set of tasks across worker goroutines, each pulling
// the next unclaimed task off a shared atomic counter. Running with one
// worker or many produces the same per-task results, since tasks are
// independent and each owns its own CodecParams; Best breaks an exact
// BestSqe tie in favor of the lowest task index, so the reported winner does
// not depend on the worker count either.
type Executor struct {
	Tasks []*Task

	next int64
}

// Run executes every task using numWorkers goroutines (numWorkers <= 1 runs
// synchronously in the calling goroutine).
func (e *Executor) Run(numWorkers int) {
	if numWorkers <= 1 {
		for _, task := range e.Tasks {
			task.Run()
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := atomic.AddInt64(&e.next, 1) - 1
				if i >= int64(len(e.Tasks)) {
					return
				}
				e.Tasks[i].Run()
			}
		}()
	}
	wg.Wait()
}

// Best returns the index of the task with the lowest BestSqe among those
// that found a viable color code, and that Sqe. It defaults to task 0 (the
// same default the reference encoder uses) so that a caller with at least
// one task always gets back a task to encode, even if every task's color
// sweep was trivial; it returns (-1, noSimulation) only when there are no
// tasks at all.
func (e *Executor) Best() (index int, sqe float32) {
	if len(e.Tasks) == 0 {
		return -1, noSimulation
	}
	bestIndex := 0
	best := noSimulation
	for i, task := range e.Tasks {
		if task.BestColorCode == noColorCode {
			continue
		}
		if task.BestSqe < best {
			best = task.BestSqe
			bestIndex = i
		}
	}
	return bestIndex, best
}
