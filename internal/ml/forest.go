// Package ml implements the bagged decision-tree ensemble used for per-user
// transaction categorization. It is deliberately small: two engineered
// features, gini-split trees over bootstrap samples, majority vote. Training
// is deterministic for a fixed seed so repeat runs over the same batch
// produce identical artifacts.
package ml

import (
	"encoding/gob"
	"fmt"
	"io"
	"math"
	"math/rand"
	"sort"
)

// Options control a training run.
type Options struct {
	Trees int
	Seed  int64
}

// DefaultOptions mirror the production training configuration.
var DefaultOptions = Options{
	Trees: 100,
	Seed:  42,
}

const (
	maxDepth = 10
	minLeaf  = 2
)

// Node is a single decision-tree node. Fields are exported for gob.
type Node struct {
	Leaf      bool
	Class     int
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node
}

// Forest is a trained ensemble. It is immutable after Train returns; readers
// may share one instance freely.
type Forest struct {
	Trees    []*Node
	Classes  []string
	Features int
}

// Train fits an ensemble on the given feature vectors and string labels.
func Train(xs [][]float64, labels []string, opts Options) (*Forest, error) {
	if len(xs) == 0 {
		return nil, fmt.Errorf("empty training set")
	}
	if len(xs) != len(labels) {
		return nil, fmt.Errorf("feature/label length mismatch: %d vs %d", len(xs), len(labels))
	}
	width := len(xs[0])
	for i, x := range xs {
		if len(x) != width {
			return nil, fmt.Errorf("row %d has %d features, expected %d", i, len(x), width)
		}
	}
	if opts.Trees <= 0 {
		opts.Trees = DefaultOptions.Trees
	}

	// Encode labels to class indices in first-seen order.
	classIndex := make(map[string]int)
	var classes []string
	ys := make([]int, len(labels))
	for i, label := range labels {
		idx, ok := classIndex[label]
		if !ok {
			idx = len(classes)
			classIndex[label] = idx
			classes = append(classes, label)
		}
		ys[i] = idx
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	forest := &Forest{
		Trees:    make([]*Node, 0, opts.Trees),
		Classes:  classes,
		Features: width,
	}

	sampleXs := make([][]float64, len(xs))
	sampleYs := make([]int, len(ys))
	for t := 0; t < opts.Trees; t++ {
		// Bootstrap sample with replacement.
		for i := range xs {
			j := rng.Intn(len(xs))
			sampleXs[i] = xs[j]
			sampleYs[i] = ys[j]
		}
		forest.Trees = append(forest.Trees, grow(sampleXs, sampleYs, len(classes), 0))
	}
	return forest, nil
}

// grow builds one tree recursively using gini impurity.
func grow(xs [][]float64, ys []int, numClasses, depth int) *Node {
	counts := classCounts(ys, numClasses)
	if depth >= maxDepth || len(ys) < 2*minLeaf || pure(counts) {
		return &Node{Leaf: true, Class: majority(counts)}
	}

	bestFeature, bestThreshold, bestScore := -1, 0.0, math.Inf(1)
	parentGini := gini(counts, len(ys))
	for f := 0; f < len(xs[0]); f++ {
		for _, threshold := range candidateThresholds(xs, f) {
			leftCounts := make([]int, numClasses)
			rightCounts := make([]int, numClasses)
			nLeft := 0
			for i, x := range xs {
				if x[f] <= threshold {
					leftCounts[ys[i]]++
					nLeft++
				} else {
					rightCounts[ys[i]]++
				}
			}
			nRight := len(xs) - nLeft
			if nLeft < minLeaf || nRight < minLeaf {
				continue
			}
			score := (float64(nLeft)*gini(leftCounts, nLeft) + float64(nRight)*gini(rightCounts, nRight)) / float64(len(xs))
			if score < bestScore {
				bestFeature, bestThreshold, bestScore = f, threshold, score
			}
		}
	}
	if bestFeature < 0 || bestScore >= parentGini {
		return &Node{Leaf: true, Class: majority(counts)}
	}

	var leftXs, rightXs [][]float64
	var leftYs, rightYs []int
	for i, x := range xs {
		if x[bestFeature] <= bestThreshold {
			leftXs = append(leftXs, x)
			leftYs = append(leftYs, ys[i])
		} else {
			rightXs = append(rightXs, x)
			rightYs = append(rightYs, ys[i])
		}
	}
	return &Node{
		Feature:   bestFeature,
		Threshold: bestThreshold,
		Left:      grow(leftXs, leftYs, numClasses, depth+1),
		Right:     grow(rightXs, rightYs, numClasses, depth+1),
	}
}

// candidateThresholds returns midpoints between adjacent distinct values of
// one feature.
func candidateThresholds(xs [][]float64, feature int) []float64 {
	values := make([]float64, 0, len(xs))
	for _, x := range xs {
		values = append(values, x[feature])
	}
	sort.Float64s(values)
	var thresholds []float64
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1] {
			thresholds = append(thresholds, (values[i]+values[i-1])/2)
		}
	}
	return thresholds
}

func classCounts(ys []int, numClasses int) []int {
	counts := make([]int, numClasses)
	for _, y := range ys {
		counts[y]++
	}
	return counts
}

func pure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func majority(counts []int) int {
	best, bestCount := 0, -1
	for class, count := range counts {
		if count > bestCount {
			best, bestCount = class, count
		}
	}
	return best
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		impurity -= p * p
	}
	return impurity
}

// Vote returns the fraction of trees voting for each class.
func (f *Forest) Vote(x []float64) ([]float64, error) {
	if len(x) != f.Features {
		return nil, fmt.Errorf("expected %d features, got %d", f.Features, len(x))
	}
	shares := make([]float64, len(f.Classes))
	for _, tree := range f.Trees {
		shares[predictTree(tree, x)]++
	}
	for i := range shares {
		shares[i] /= float64(len(f.Trees))
	}
	return shares, nil
}

// Predict returns the majority-vote label and its vote share.
func (f *Forest) Predict(x []float64) (string, float64, error) {
	shares, err := f.Vote(x)
	if err != nil {
		return "", 0, err
	}
	best := 0
	for i := range shares {
		if shares[i] > shares[best] {
			best = i
		}
	}
	return f.Classes[best], shares[best], nil
}

func predictTree(n *Node, x []float64) int {
	for !n.Leaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Class
}

// Encode writes the forest as gob.
func (f *Forest) Encode(w io.Writer) error {
	return gob.NewEncoder(w).Encode(f)
}

// Decode reads a forest previously written by Encode.
func Decode(r io.Reader) (*Forest, error) {
	var f Forest
	if err := gob.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}
	return &f, nil
}
