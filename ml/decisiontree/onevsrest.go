package decisiontree

import (
	"fmt"
	"math"
	"sort"
)

// NewOneVsRest returns an unfitted multi-class classifier
func NewOneVsRest(params Hyperparameters) *OneVsRest {
	return &OneVsRest{Params: params.normalised()}
}

// Fit trains one binary tree per distinct label. With a single distinct
// label no trees are grown and that label is always predicted.
func (o *OneVsRest) Fit(x [][]float64, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrLabelMismatch, len(x), len(y))
	}
	n, err := validateRows(x, 0)
	if err != nil {
		return err
	}
	seen := make(map[float64]struct{})
	for i := range y {
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return fmt.Errorf("%w label at row %d", ErrNonFinite, i)
		}
		seen[y[i]] = struct{}{}
	}
	classes := make([]float64, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Float64s(classes)

	o.Params = o.Params.normalised()
	o.NumFeatures = n
	o.Classes = classes
	o.Trees = nil
	if len(classes) == 1 {
		return nil
	}
	o.Trees = make([]*Tree, len(classes))
	for c := range classes {
		binary := make([]bool, len(y))
		for i := range y {
			binary[i] = y[i] == classes[c]
		}
		tree := NewTree(o.Params)
		if err := tree.Fit(x, binary); err != nil {
			return fmt.Errorf("class %v: %w", classes[c], err)
		}
		o.Trees[c] = tree
	}
	return nil
}

// PredictRow returns the most likely class for one row
func (o *OneVsRest) PredictRow(row []float64) (float64, error) {
	if len(o.Classes) == 0 {
		return 0, ErrNotFitted
	}
	if err := validateRow(row, o.NumFeatures); err != nil {
		return 0, err
	}
	if len(o.Classes) == 1 {
		return o.Classes[0], nil
	}
	if len(o.Trees) != len(o.Classes) {
		return 0, fmt.Errorf("%w: %d trees for %d classes", ErrNotFitted, len(o.Trees), len(o.Classes))
	}
	best, bestProb := 0, math.Inf(-1)
	for c := range o.Trees {
		p, err := o.Trees[c].PredictProba(row)
		if err != nil {
			return 0, err
		}
		if p > bestProb {
			best, bestProb = c, p
		}
	}
	return o.Classes[best], nil
}

// Predict returns the most likely class for every row
func (o *OneVsRest) Predict(x [][]float64) ([]float64, error) {
	out := make([]float64, len(x))
	for i := range x {
		c, err := o.PredictRow(x[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}
