package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/skillgap-recommender/internal/types"
)

// LoadIndex reads a taxonomy JSON file (a list of skill records) and builds an
// Index. Any schema violation -- missing required field, unknown difficulty
// level, duplicate alias -- is fatal here: the process must not start with an
// inconsistent taxonomy.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}

	var entries []types.TaxonomyEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy JSON: %w", err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("taxonomy file %s contains no entries", path)
	}

	validate := validator.New()
	for i, entry := range entries {
		if err := validate.Struct(entry); err != nil {
			return nil, fmt.Errorf("taxonomy entry %d (%q) is malformed: %w", i, entry.Name, err)
		}
		if !types.ValidDifficulty(entry.Difficulty) {
			return nil, fmt.Errorf("taxonomy entry %q has unknown difficulty level %q", entry.Name, entry.Difficulty)
		}
	}

	idx, err := NewIndex(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to build taxonomy index: %w", err)
	}
	return idx, nil
}
