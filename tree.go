package huffpack

import (
	"container/heap"
	"math"
)

// Node is a single node of a Huffman coding tree.  A Node with no children
// is a leaf and carries the Symbol it stands for; any other Node is an
// internal node whose Weight is the sum of its children's Weights.
type Node struct {
	Symbol Symbol
	Weight uint64
	Left   *Node
	Right  *Node
}

// IsLeaf reports whether n is a leaf.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// BuildTree constructs a Huffman coding tree for the given frequency table
// and returns its root.
//
// Construction is deterministic: leaves enter the work queue in ascending
// Symbol order, nodes of equal weight leave it in the order they entered,
// and the first of the two nodes popped by a merge becomes the left child.
// Two equal tables always produce structurally identical trees.
//
// A table with a single entry produces a tree whose root is itself a leaf.
// An empty table produces a nil root.
func BuildTree(ft FrequencyTable) *Node {
	if len(ft) == 0 {
		return nil
	}

	h := nodeHeap{list: make([]queuedNode, 0, len(ft))}
	for value := 0; value < NumSymbols; value++ {
		if freq, found := ft[Symbol(value)]; found {
			h.Push(&Node{Symbol: Symbol(value), Weight: freq})
		}
	}
	h.Init()

	for h.Len() > 1 {
		left := heap.Pop(&h).(*Node)
		right := heap.Pop(&h).(*Node)

		// Compute the merged weight using saturating addition.
		weight := left.Weight + right.Weight
		if weight < left.Weight {
			weight = math.MaxUint64
		}

		heap.Push(&h, &Node{Weight: weight, Left: left, Right: right})
	}
	return heap.Pop(&h).(*Node)
}

// type queuedNode + type nodeHeap {{{

// queuedNode pairs a Node with its arrival number.  Less orders by
// (weight, arrival), so nodes of equal weight pop in the order they were
// pushed.
type queuedNode struct {
	node *Node
	seq  uint32
}

type nodeHeap struct {
	list []queuedNode
	next uint32
}

func (h *nodeHeap) Init() {
	heap.Init(h)
}

func (h *nodeHeap) Len() int {
	return len(h.list)
}

func (h *nodeHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	if a.node.Weight != b.node.Weight {
		return a.node.Weight < b.node.Weight
	}
	return a.seq < b.seq
}

func (h *nodeHeap) Push(x interface{}) {
	h.list = append(h.list, queuedNode{node: x.(*Node), seq: h.next})
	h.next++
}

func (h *nodeHeap) Pop() interface{} {
	last := uint(len(h.list)) - 1
	x := h.list[last]
	h.list = h.list[:last]
	return x.node
}

var _ heap.Interface = (*nodeHeap)(nil)

// }}}
