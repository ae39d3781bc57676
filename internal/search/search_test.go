package search_test

import (
	"testing"

	twim "github.com/twim/twim"
	"github.com/twim/twim/internal/search"
	"github.com/twim/twim/internal/ubercache"
)

func checkerboard(width, height int) (rs, gs, bs []uint8) {
	n := width * height
	rs = make([]uint8, n)
	gs = make([]uint8, n)
	bs = make([]uint8, n)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if (x/4+y/4)%2 == 0 {
				rs[i], gs[i], bs[i] = 0, 0, 0
			} else {
				rs[i], gs[i], bs[i] = 255, 255, 255
			}
		}
	}
	return rs, gs, bs
}

func newParams(width, height int32) search.CodecParams {
	return twim.NewCodecParams(width, height)
}

func TestTaskRunFindsAColorCode(t *testing.T) {
	const w, h = 16, 16
	r, g, b := checkerboard(w, h)
	uber := ubercache.New(w, h, r, g, b)

	task := search.NewTask(64, search.Variant{PartitionCode: 0, LineLimit: 10, ColorOptions: 1}, uber, newParams)
	task.Run()
	if task.BestColorCode == ^uint32(0) {
		t.Fatalf("task found no color code")
	}
}

func TestExecutorSingleVsMultiWorkerAgree(t *testing.T) {
	const w, h = 16, 16
	r, g, b := checkerboard(w, h)
	uber := ubercache.New(w, h, r, g, b)

	variants := []search.Variant{
		{PartitionCode: 0, LineLimit: 5, ColorOptions: 1},
		{PartitionCode: 1, LineLimit: 8, ColorOptions: 1 << 1},
		{PartitionCode: 2, LineLimit: 12, ColorOptions: 1 << 2},
	}

	runExecutor := func(workers int) (int, float32) {
		exec := &search.Executor{}
		for _, v := range variants {
			exec.Tasks = append(exec.Tasks, search.NewTask(48, v, uber, newParams))
		}
		exec.Run(workers)
		return exec.Best()
	}

	idx1, sqe1 := runExecutor(1)
	idx2, sqe2 := runExecutor(4)
	if idx1 != idx2 || sqe1 != sqe2 {
		t.Fatalf("single-worker (%d, %v) != multi-worker (%d, %v)", idx1, sqe1, idx2, sqe2)
	}
}
