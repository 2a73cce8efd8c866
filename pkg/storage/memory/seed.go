package memory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
)

// SeedData is the file format accepted by SeedFromFile.
type SeedData struct {
	Items    []models.Item    `json:"items"`
	Profiles []models.Profile `json:"profiles"`
}

// SeedFromFile loads items and profiles from a JSON file.
func (s *Store) SeedFromFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to decode seed file: %w", err)
	}
	for _, item := range data.Items {
		if item.Id == "" || item.OwnerId == "" {
			return fmt.Errorf("seed item %q has no id or owner", item.Id)
		}
	}
	s.Seed(data.Items, data.Profiles)
	return nil
}
