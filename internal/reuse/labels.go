package reuse

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/echotrace/internal/model"
)

// LoadLabels reads a domain -> label JSON mapping. The mapping is produced
// by external labeling tooling and is read-only input here.
func LoadLabels(path string) (model.DomainLabels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	var labels model.DomainLabels
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	return labels, nil
}
