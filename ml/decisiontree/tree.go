// Package decisiontree grows binary CART trees with golearn and wraps them
// in a one-vs-rest classifier for multi-class labels.
package decisiontree

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/trees"
)

const improvementEpsilon = 1e-12

var binaryLabels = []int64{0, 1}

// cartNode mirrors the exported fields of golearn's tree node, whose type is
// unexported
type cartNode struct {
	Left      *cartNode
	Right     *cartNode
	Threshold float64
	Feature   int64
}

// DefaultHyperparameters grows a full tree
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{MinSamplesSplit: 2, MinSamplesLeaf: 1}
}

func (h Hyperparameters) normalised() Hyperparameters {
	if h.MaxDepth < 0 {
		h.MaxDepth = 0
	}
	if h.MinSamplesSplit < 2 {
		h.MinSamplesSplit = 2
	}
	if h.MinSamplesLeaf < 1 {
		h.MinSamplesLeaf = 1
	}
	return h
}

// cartDepth converts MaxDepth to golearn's convention where -1 is unlimited
func (h Hyperparameters) cartDepth() int64 {
	if h.MaxDepth == 0 {
		return -1
	}
	return int64(h.MaxDepth)
}

// NewTree returns an unfitted binary tree
func NewTree(params Hyperparameters) *Tree {
	return &Tree{Params: params.normalised()}
}

func validateRows(x [][]float64, numFeatures int) (int, error) {
	if len(x) == 0 {
		return 0, ErrEmptyTrainingSet
	}
	if numFeatures == 0 {
		numFeatures = len(x[0])
	}
	if numFeatures == 0 {
		return 0, fmt.Errorf("%w: rows have no features", ErrFeatureMismatch)
	}
	for i := range x {
		if err := validateRow(x[i], numFeatures); err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return numFeatures, nil
}

func validateRow(row []float64, numFeatures int) error {
	if len(row) != numFeatures {
		return fmt.Errorf("%w: got %d want %d", ErrFeatureMismatch, len(row), numFeatures)
	}
	for j := range row {
		if math.IsNaN(row[j]) || math.IsInf(row[j], 0) {
			return fmt.Errorf("%w feature %d", ErrNonFinite, j)
		}
	}
	return nil
}

// instances packs rows and 0/1 labels into a golearn grid with a float class
// attribute
func instances(x [][]float64, y []bool) (*base.DenseInstances, error) {
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(x[0]))
	for j := range specs {
		specs[j] = inst.AddAttribute(base.NewFloatAttribute("f" + strconv.Itoa(j)))
	}
	label := base.NewFloatAttribute("label")
	labelSpec := inst.AddAttribute(label)
	if err := inst.AddClassAttribute(label); err != nil {
		return nil, err
	}
	if err := inst.Extend(len(x)); err != nil {
		return nil, err
	}
	for i := range x {
		for j := range specs {
			inst.Set(specs[j], i, base.PackFloatToBytes(x[i][j]))
		}
		var v float64
		if y[i] {
			v = 1
		}
		inst.Set(labelSpec, i, base.PackFloatToBytes(v))
	}
	return inst, nil
}

// Fit grows the tree from rows x labelled positive or negative by y
func (t *Tree) Fit(x [][]float64, y []bool) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrLabelMismatch, len(x), len(y))
	}
	n, err := validateRows(x, 0)
	if err != nil {
		return err
	}
	t.Params = t.Params.normalised()
	t.NumFeatures = n
	t.Nodes = t.Nodes[:0]
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}

	var root *cartNode
	if pos := positives(y, idx); pos > 0 && pos < len(y) {
		root, err = t.growCART(x, y)
		if err != nil {
			return err
		}
	}
	t.flatten(root, x, y, idx, 0)
	return nil
}

func (t *Tree) growCART(x [][]float64, y []bool) (*cartNode, error) {
	inst, err := instances(x, y)
	if err != nil {
		return nil, fmt.Errorf("building training grid: %w", err)
	}
	clf := trees.NewDecisionTreeClassifier(trees.GINI, t.Params.cartDepth(), binaryLabels)
	if err := clf.Fit(inst); err != nil {
		return nil, fmt.Errorf("fitting CART: %w", err)
	}
	raw, err := json.Marshal(clf.RootNode)
	if err != nil {
		return nil, err
	}
	root := &cartNode{}
	if err := json.Unmarshal(raw, root); err != nil {
		return nil, err
	}
	return root, nil
}

func positives(y []bool, idx []int) int {
	pos := 0
	for _, i := range idx {
		if y[i] {
			pos++
		}
	}
	return pos
}

func gini(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 2 * p * (1 - p)
}

// flatten routes the training rows in idx through node and appends the
// result to t.Nodes. A golearn node that was never split carries a zero
// threshold on feature 0; any split that does not strictly lower the Gini
// impurity of its rows, or that breaks the sample minimums, becomes a leaf.
func (t *Tree) flatten(node *cartNode, x [][]float64, y []bool, idx []int, depth int) int {
	pos := positives(y, idx)
	self := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{
		Left:    leaf,
		Right:   leaf,
		Value:   float64(pos) / float64(len(idx)),
		Samples: len(idx),
	})
	if node == nil || pos == 0 || pos == len(idx) ||
		len(idx) < t.Params.MinSamplesSplit ||
		(t.Params.MaxDepth > 0 && depth >= t.Params.MaxDepth) {
		return self
	}
	f := int(node.Feature)
	if f < 0 || f >= t.NumFeatures {
		return self
	}

	var left, right []int
	for _, i := range idx {
		if x[i][f] < node.Threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	nl, nr := len(left), len(right)
	if nl < t.Params.MinSamplesLeaf || nr < t.Params.MinSamplesLeaf {
		return self
	}
	leftPos := positives(y, left)
	score := (float64(nl)*gini(leftPos, nl) + float64(nr)*gini(pos-leftPos, nr)) / float64(len(idx))
	if score >= gini(pos, len(idx))-improvementEpsilon {
		return self
	}

	l := t.flatten(node.Left, x, y, left, depth+1)
	r := t.flatten(node.Right, x, y, right, depth+1)
	t.Nodes[self].Feature = f
	t.Nodes[self].Threshold = node.Threshold
	t.Nodes[self].Left = l
	t.Nodes[self].Right = r
	return self
}

// PredictProba returns the fraction of positive training samples in the leaf
// row falls into
func (t *Tree) PredictProba(row []float64) (float64, error) {
	if len(t.Nodes) == 0 {
		return 0, ErrNotFitted
	}
	if err := validateRow(row, t.NumFeatures); err != nil {
		return 0, err
	}
	i := 0
	for t.Nodes[i].Left != leaf {
		if row[t.Nodes[i].Feature] < t.Nodes[i].Threshold {
			i = t.Nodes[i].Left
		} else {
			i = t.Nodes[i].Right
		}
	}
	return t.Nodes[i].Value, nil
}

// Depth returns the number of edges on the longest root to leaf path
func (t *Tree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	var walk func(i int) int
	walk = func(i int) int {
		if t.Nodes[i].Left == leaf {
			return 0
		}
		return 1 + max(walk(t.Nodes[i].Left), walk(t.Nodes[i].Right))
	}
	return walk(0)
}
