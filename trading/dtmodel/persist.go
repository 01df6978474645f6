package dtmodel

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dgunay/techalyzer/signals"
)

// MarshalJSON implements json.Marshaler
func (t *TrainedModel) MarshalJSON() ([]byte, error) {
	return json.Marshal(persisted{
		Version:    persistVersion,
		Shares:     t.shares,
		Generators: signals.Configs(t.generators),
		Classifier: t.classifier,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Generators are rebuilt fresh
// from their configs.
func (t *TrainedModel) UnmarshalJSON(data []byte) error {
	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Version != persistVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidModelFile, p.Version)
	}
	if len(p.Generators) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidModelFile, ErrNoSignalGenerators)
	}
	if p.Classifier == nil || len(p.Classifier.Classes) == 0 {
		return fmt.Errorf("%w: missing classifier", ErrInvalidModelFile)
	}
	if p.Classifier.NumFeatures != len(p.Generators) {
		return fmt.Errorf("%w: classifier expects %d features, %d generators supplied",
			ErrInvalidModelFile, p.Classifier.NumFeatures, len(p.Generators))
	}
	gens, err := signals.NewGenerators(p.Generators)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidModelFile, err)
	}
	*t = TrainedModel{classifier: p.Classifier, generators: gens, shares: p.Shares}
	return nil
}

// Save writes the model as indented JSON
func Save(w io.Writer, t *TrainedModel) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// Load reads a model written by Save
func Load(r io.Reader) (*TrainedModel, error) {
	t := &TrainedModel{}
	if err := json.NewDecoder(r).Decode(t); err != nil {
		return nil, err
	}
	return t, nil
}

// SaveFile writes the model to path
func SaveFile(path string, t *TrainedModel) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Save(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a model from path
func LoadFile(path string) (*TrainedModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
