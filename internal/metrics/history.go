package metrics

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// History holds per-epoch training and validation loss.
type History struct {
	Train      []float64 `yaml:"train"`
	Validation []float64 `yaml:"validation"`
}

// Record appends one epoch.
func (h *History) Record(train, validation float64) {
	h.Train = append(h.Train, train)
	h.Validation = append(h.Validation, validation)
}

// Epochs returns the number of recorded epochs.
func (h *History) Epochs() int { return len(h.Train) }

// Best returns the zero-based epoch with the lowest validation loss.
// Ties resolve to the earliest epoch.
func (h *History) Best() (epoch int, loss float64, err error) {
	if len(h.Validation) == 0 {
		return 0, 0, errors.New("history: no epochs recorded")
	}
	epoch, loss = 0, h.Validation[0]
	for i, v := range h.Validation[1:] {
		if v < loss {
			epoch, loss = i+1, v
		}
	}
	return epoch, loss, nil
}

// Validate checks that both curves cover the same epochs.
func (h *History) Validate() error {
	if len(h.Train) != len(h.Validation) {
		return fmt.Errorf("history: %d train epochs vs %d validation epochs", len(h.Train), len(h.Validation))
	}
	return nil
}

// LoadHistory reads a YAML loss history with train and validation lists.
func LoadHistory(path string) (*History, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	h := &History{}
	if err := yaml.Unmarshal(raw, h); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}
