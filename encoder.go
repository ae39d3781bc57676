package twim

import (
	"fmt"
	"os"

	"github.com/twim/twim/internal/fragment"
	"github.com/twim/twim/internal/partition"
	"github.com/twim/twim/internal/palette"
	"github.com/twim/twim/internal/search"
	"github.com/twim/twim/internal/ubercache"
	"github.com/twim/twim/internal/xrangecoder"
)

// doEncode serializes the fragment tree rooted at root: the header, the
// palette (if any), then a breadth-first traversal (left child enqueued
// before right) writing each node's type tag and payload. numNonLeaf
// fragments, by admission order (Fragment.Ordinal), are interior nodes;
// everything else is a FILL leaf.
func doEncode(root *fragment.Fragment, numNonLeaf int, cp *CodecParams, paletteColors []float32) []byte {
	dst := xrangecoder.NewEncoder()
	cp.Write(dst)

	m := int(cp.PaletteSize())
	for j := 0; j < m; j++ {
		for c := 0; c < 3; c++ {
			dst.WriteNumber(256, uint32(paletteColors[4*j+c]))
		}
	}

	queue := []*fragment.Fragment{root}
	for encoded := 0; encoded < len(queue); encoded++ {
		node := queue[encoded]
		isLeaf := node.Ordinal >= numNonLeaf
		maxAngle := uint32(1)
		if !isLeaf {
			maxAngle = uint32(1) << uint(cp.AngleBits(node.Level))
		}
		children := node.Encode(dst, maxAngle, cp.ColorQuant(), cp.PaletteSize(), isLeaf, paletteColors)
		queue = append(queue, children...)
	}
	return dst.Finish()
}

// newSearchParams adapts NewCodecParams to the function shape the search
// package needs, without that package importing this one.
func newSearchParams(width, height int32) search.CodecParams {
	return NewCodecParams(width, height)
}

// encode runs the full variant search and serializes the winner.
func encode(img Image, params Params) (Result, error) {
	if img.Width < 8 || img.Height < 8 {
		return Result{}, ErrImageTooSmall
	}

	uber := ubercache.New(int(img.Width), int(img.Height), img.R, img.G, img.B)

	tasks := make([]*search.Task, len(params.Variants))
	for i, v := range params.Variants {
		tasks[i] = search.NewTask(params.TargetSize, search.Variant(v), uber, newSearchParams)
	}
	executor := &search.Executor{Tasks: tasks}
	executor.Run(params.NumThreads)

	bestIndex, bestSqe := executor.Best()
	if bestIndex < 0 {
		return Result{}, ErrEmptyPartition
	}
	bestTask := tasks[bestIndex]
	cp := bestTask.CP.(*CodecParams)
	cp.SetColorCode(int32(bestTask.BestColorCode))

	part := bestTask.Partition
	numNonLeaf := part.Subpartition(cp, params.TargetSize)
	patches := partition.GatherPatches(part.Nodes, numNonLeaf)
	colors := palette.Build(patches, int(cp.PaletteSize()))
	data := doEncode(part.Root, numNonLeaf, cp, colors)

	mse := (bestSqe + uber.RGB2[0] + uber.RGB2[1] + uber.RGB2[2]) / float32(img.Width*img.Height)
	variant := bestTask.Variant
	variant.ColorOptions = uint64(1) << bestTask.BestColorCode

	if params.Verbose {
		fmt.Fprintf(os.Stderr, "twim: picked partition=%d line_limit=%d color_code=%d mse=%v\n",
			variant.PartitionCode, variant.LineLimit, bestTask.BestColorCode, mse)
	}

	return Result{
		Data:    data,
		Variant: Variant(variant),
		MSE:     mse,
	}, nil
}
