// Package partition runs the best-first search that grows a fragment tree
// under a bit budget, and gathers its leaves into patches for palette
// construction.
package partition

import (
	"container/heap"

	"github.com/twim/twim/internal/distance"
	"github.com/twim/twim/internal/fragment"
	"github.com/twim/twim/internal/palette"
	"github.com/twim/twim/internal/region"
	"github.com/twim/twim/internal/sincos"
	"github.com/twim/twim/internal/ubercache"
)

// Params is the subset of CodecParams the partition builder needs.
type Params interface {
	distance.Params
	GetLevel(region.Region) int32
	AngleBits(level int32) int32
	ColorQuant() int32
	PaletteSize() int32
	Tax() float32
}

// fragmentHeap is a max-heap over pending fragments, ordered by best split
// score (the candidate most worth splitting next pops first).
type fragmentHeap []*fragment.Fragment

func (h fragmentHeap) Len() int            { return len(h) }
func (h fragmentHeap) Less(i, j int) bool  { return h[i].BestScore > h[j].BestScore }
func (h fragmentHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *fragmentHeap) Push(x interface{}) { *h = append(*h, x.(*fragment.Fragment)) }
func (h *fragmentHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Build grows root into a partition tree by repeatedly splitting whichever
// pending fragment scores best, stopping at the first best-scoring candidate
// whose split no longer fits within sizeLimit bytes. The returned slice is in admission order: its prefix is
// the interior nodes, matching each node's Ordinal.
func Build(root *fragment.Fragment, sizeLimit int, cp Params, cache *ubercache.Cache) []*fragment.Fragment {
	tax := sincos.BitCost(fragment.NodeTypeCount)
	budget := float32(sizeLimit)*8.0 - tax - cp.Tax()

	var result []*fragment.Fragment
	q := &fragmentHeap{}
	root.FindBestSubdivision(cache, cp)
	heap.Push(q, root)
	for q.Len() > 0 {
		candidate := heap.Pop(q).(*fragment.Fragment)
		if candidate.BestScore < 0.0 || candidate.BestCost < 0.0 {
			break
		}
		if tax+candidate.BestCost > budget {
			break
		}
		budget -= tax + candidate.BestCost
		candidate.Ordinal = len(result)
		result = append(result, candidate)
		candidate.Left.FindBestSubdivision(cache, cp)
		heap.Push(q, candidate.Left)
		candidate.Right.FindBestSubdivision(cache, cp)
		heap.Push(q, candidate.Right)
	}
	return result
}

// Partition owns a built fragment tree together with the per-region scratch
// cache it was built with, so a later color-option sweep can reuse it
// without rebuilding the tree.
type Partition struct {
	Cache *ubercache.Cache
	Root  *fragment.Fragment
	Nodes []*fragment.Fragment
}

// New builds a fresh partition over the whole image, targeting sizeLimit
// encoded bytes under cp's tuning.
func New(uber *ubercache.UberCache, cp Params, sizeLimit int) *Partition {
	cache := ubercache.NewCache(uber)
	root := fragment.New(region.Full(int32(uber.Width), int32(uber.Height)))
	nodes := Build(root, sizeLimit, cp, cache)
	return &Partition{Cache: cache, Root: root, Nodes: nodes}
}

// Subpartition returns the number of interior (non-leaf) nodes that fit
// within targetSize bytes once the color-coding tax of cp is accounted for,
// i.e. the prefix of p.Nodes to treat as interior when truncating the built
// tree to a (possibly smaller) target size.
func (p *Partition) Subpartition(cp Params, targetSize int) int {
	nodeTax := sincos.BitCost(fragment.NodeTypeCount)
	imageTax := cp.Tax()
	if cp.PaletteSize() == 0 {
		nodeTax += 3.0 * sincos.BitCost(int(cp.ColorQuant()))
	} else {
		nodeTax += sincos.BitCost(int(cp.PaletteSize()))
		imageTax += float32(cp.PaletteSize()) * 3.0 * 8.0
	}
	budget := 8.0*float32(targetSize) - 4.0 - imageTax - nodeTax

	limit := len(p.Nodes)
	i := 0
	for ; i < limit; i++ {
		node := p.Nodes[i]
		if node.BestCost < 0.0 {
			break
		}
		cost := node.BestCost + nodeTax
		if budget < cost {
			break
		}
		budget -= cost
	}
	return i
}

// noSimulation is returned by SimulateEncode when targetSize is too small to
// hold even the flat-image cost, mirroring the sentinel the reference
// quantization scorer uses for "no viable quantization."
const noSimulation = float32(1e35)

// SimulateEncode scores the squared quantization error of truncating p to
// targetSize bytes under cp's color coding, without touching p.Nodes itself
// (cp may vary only in its color code across calls on the same Partition).
func (p *Partition) SimulateEncode(cp Params, targetSize int) float32 {
	numNonLeaf := p.Subpartition(cp, targetSize)
	if numNonLeaf <= 1 {
		return noSimulation
	}
	patches := GatherPatches(p.Nodes, numNonLeaf)
	colors := palette.Build(patches, int(cp.PaletteSize()))
	return palette.SimulateEncode(patches, cp.ColorQuant(), colors)
}

// GatherPatches collects one Patch per leaf among the first numNonLeaf
// interior nodes' children, in tree-traversal order.
func GatherPatches(nodes []*fragment.Fragment, numNonLeaf int) []palette.Patch {
	patches := make([]palette.Patch, 0, numNonLeaf+1)
	maybeAdd := func(leaf *fragment.Fragment) {
		if leaf == nil || leaf.Ordinal < numNonLeaf {
			return
		}
		patches = append(patches, palette.Patch{
			R:     leaf.Stats.R / leaf.Stats.Count,
			G:     leaf.Stats.G / leaf.Stats.Count,
			B:     leaf.Stats.B / leaf.Stats.Count,
			Count: leaf.Stats.Count,
		})
	}
	for i := 0; i < numNonLeaf; i++ {
		node := nodes[i]
		maybeAdd(node.Left)
		maybeAdd(node.Right)
	}
	return patches
}
