package rank

import (
	"sort"
)

// l2Reg stabilizes leaf values and split gains when hessians get small.
const l2Reg = 1e-6

// TreeNode is one node of a regression tree in array layout. Leaves carry
// Value; internal nodes route on Feature <= Threshold to Left, else Right.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
	IsLeaf    bool
}

// Tree is a single regression tree fit to lambda gradients.
type Tree struct {
	Nodes []TreeNode
}

// Predict routes a feature vector to its leaf value.
func (t *Tree) Predict(x []float64) float64 {
	i := 0
	for !t.Nodes[i].IsLeaf {
		n := t.Nodes[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Value
}

// split describes the best candidate split found for a growable leaf.
type split struct {
	gain      float64
	feature   int
	threshold float64
	left      []int
	right     []int
}

// leafCandidate is a tree leaf that may still be expanded.
type leafCandidate struct {
	node    int
	indices []int
	depth   int
	best    *split
}

// buildTree grows a regression tree best-first: the leaf with the highest
// split gain is expanded until the leaf budget, depth bound, or gain floor
// stops growth. grad holds the desired ascent direction per row; leaf values
// take the Newton step sum(grad)/(sum(hess)+reg). Realized split gains are
// accumulated into importance by feature index when it is non-nil.
func buildTree(features [][]float64, grad, hess []float64, p Params, importance []float64) *Tree {
	root := make([]int, len(features))
	for i := range root {
		root[i] = i
	}

	t := &Tree{Nodes: []TreeNode{leafNode(grad, hess, root)}}
	open := []*leafCandidate{{node: 0, indices: root, depth: 0}}
	leaves := 1

	for leaves < p.NumLeaves {
		// Find the expandable leaf with the best gain
		bestIdx := -1
		for i, c := range open {
			if c.depth >= p.MaxDepth {
				continue
			}
			if c.best == nil {
				c.best = findBestSplit(features, grad, hess, c.indices, p)
			}
			if c.best.feature < 0 || c.best.gain <= p.MinGainToSplit {
				continue
			}
			if bestIdx < 0 || c.best.gain > open[bestIdx].best.gain {
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}

		c := open[bestIdx]
		open = append(open[:bestIdx], open[bestIdx+1:]...)

		if importance != nil {
			importance[c.best.feature] += c.best.gain
		}

		left := len(t.Nodes)
		t.Nodes = append(t.Nodes, leafNode(grad, hess, c.best.left))
		right := len(t.Nodes)
		t.Nodes = append(t.Nodes, leafNode(grad, hess, c.best.right))

		t.Nodes[c.node].IsLeaf = false
		t.Nodes[c.node].Feature = c.best.feature
		t.Nodes[c.node].Threshold = c.best.threshold
		t.Nodes[c.node].Left = left
		t.Nodes[c.node].Right = right

		open = append(open,
			&leafCandidate{node: left, indices: c.best.left, depth: c.depth + 1},
			&leafCandidate{node: right, indices: c.best.right, depth: c.depth + 1},
		)
		leaves++
	}

	return t
}

func leafNode(grad, hess []float64, indices []int) TreeNode {
	var g, h float64
	for _, i := range indices {
		g += grad[i]
		h += hess[i]
	}
	return TreeNode{IsLeaf: true, Value: g / (h + l2Reg)}
}

// findBestSplit scans every feature for the threshold maximizing the gain
//
//	GL²/(HL+reg) + GR²/(HR+reg) − G²/(H+reg)
//
// subject to the minimum leaf size.
func findBestSplit(features [][]float64, grad, hess []float64, indices []int, p Params) *split {
	best := &split{feature: -1}
	if len(indices) < 2*p.MinSamplesLeaf {
		return best
	}

	var gTotal, hTotal float64
	for _, i := range indices {
		gTotal += grad[i]
		hTotal += hess[i]
	}
	parentScore := gTotal * gTotal / (hTotal + l2Reg)

	numFeatures := len(features[indices[0]])
	sorted := make([]int, len(indices))

	for f := 0; f < numFeatures; f++ {
		copy(sorted, indices)
		sort.Slice(sorted, func(a, b int) bool {
			return features[sorted[a]][f] < features[sorted[b]][f]
		})

		var gLeft, hLeft float64
		for pos := 0; pos < len(sorted)-1; pos++ {
			i := sorted[pos]
			gLeft += grad[i]
			hLeft += hess[i]

			v, next := features[i][f], features[sorted[pos+1]][f]
			if v == next {
				continue
			}
			if pos+1 < p.MinSamplesLeaf || len(sorted)-pos-1 < p.MinSamplesLeaf {
				continue
			}

			gRight := gTotal - gLeft
			hRight := hTotal - hLeft
			gain := gLeft*gLeft/(hLeft+l2Reg) + gRight*gRight/(hRight+l2Reg) - parentScore
			if gain > best.gain {
				best.gain = gain
				best.feature = f
				best.threshold = (v + next) / 2
				// Copy out of sorted; it is re-sorted for the next feature
				best.left = append(best.left[:0], sorted[:pos+1]...)
				best.right = append(best.right[:0], sorted[pos+1:]...)
			}
		}
	}

	return best
}
