package decisiontree

import "errors"

var (
	// ErrEmptyTrainingSet is returned when Fit receives no samples
	ErrEmptyTrainingSet = errors.New("empty training set")
	// ErrFeatureMismatch is returned when a row has the wrong number of features
	ErrFeatureMismatch = errors.New("feature count mismatch")
	// ErrLabelMismatch is returned when rows and labels differ in length
	ErrLabelMismatch = errors.New("row and label counts differ")
	// ErrNotFitted is returned when predicting before Fit
	ErrNotFitted = errors.New("classifier has not been fitted")
	// ErrNonFinite is returned when a feature or label is NaN or infinite
	ErrNonFinite = errors.New("non-finite value")
)

const leaf = -1

// Hyperparameters control tree growth. MaxDepth zero means unlimited. The
// sample minimums prune splits golearn chose rather than steering its search.
type Hyperparameters struct {
	MaxDepth        int `json:"max_depth" mapstructure:"maxdepth"`
	MinSamplesSplit int `json:"min_samples_split" mapstructure:"minsamplessplit"`
	MinSamplesLeaf  int `json:"min_samples_leaf" mapstructure:"minsamplesleaf"`
}

// Node is a flattened tree node. Leaves have Left and Right set to -1.
// Value is the fraction of positive training samples that reached the node.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	Samples   int     `json:"samples"`
}

// Tree is a binary CART classifier using Gini impurity. Samples with
// feature < Threshold go left.
type Tree struct {
	Params      Hyperparameters `json:"params"`
	NumFeatures int             `json:"num_features"`
	Nodes       []Node          `json:"nodes"`
}

// OneVsRest trains one Tree per class and predicts the class whose tree is
// most confident. Ties go to the lowest class.
type OneVsRest struct {
	Params      Hyperparameters `json:"params"`
	NumFeatures int             `json:"num_features"`
	Classes     []float64       `json:"classes"`
	Trees       []*Tree         `json:"trees"`
}
