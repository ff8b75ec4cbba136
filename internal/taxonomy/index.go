// Package taxonomy provides the canonical skill catalog: alias resolution,
// difficulty ranking, and the related-skill graph.
package taxonomy

import (
	"fmt"
	"strings"

	"github.com/jonathan/skillgap-recommender/internal/types"
)

// Index is an immutable, concurrently-readable view of the skill taxonomy.
// It is built once at startup and rebuilt wholesale on taxonomy updates;
// nothing mutates it after construction, so unsynchronized reads are safe.
type Index struct {
	entries map[string]*types.TaxonomyEntry // lowercase canonical name -> entry
	aliases map[string]string               // lowercase alias -> canonical name
}

// NewIndex builds an Index from taxonomy entries.
// It fails when an alias (or canonical name) collides across two different
// canonical entries; an inconsistent taxonomy must not be served.
func NewIndex(entries []types.TaxonomyEntry) (*Index, error) {
	idx := &Index{
		entries: make(map[string]*types.TaxonomyEntry, len(entries)),
		aliases: make(map[string]string),
	}

	for i := range entries {
		entry := entries[i]
		key := normalizeKey(entry.Name)
		if key == "" {
			return nil, fmt.Errorf("taxonomy entry %d has an empty name", i)
		}
		if _, exists := idx.entries[key]; exists {
			return nil, fmt.Errorf("duplicate taxonomy entry %q", entry.Name)
		}
		idx.entries[key] = &entry
	}

	// Aliases are registered in a second pass so an alias colliding with any
	// canonical name is caught regardless of entry order in the file.
	for _, entry := range idx.entries {
		for _, alias := range entry.Aliases {
			key := normalizeKey(alias)
			if key == "" {
				continue
			}
			if owner, exists := idx.aliases[key]; exists && owner != entry.Name {
				return nil, fmt.Errorf("alias %q maps to both %q and %q", alias, owner, entry.Name)
			}
			if other, exists := idx.entries[key]; exists && other.Name != entry.Name {
				return nil, fmt.Errorf("alias %q of %q collides with canonical skill %q", alias, entry.Name, other.Name)
			}
			idx.aliases[key] = entry.Name
		}
	}

	return idx, nil
}

// Resolve looks up a skill by canonical name or alias, case-insensitively and
// ignoring surrounding whitespace. Unknown input returns (nil, false), not an
// error, so callers can fall back to raw-text handling.
func (idx *Index) Resolve(nameOrAlias string) (*types.TaxonomyEntry, bool) {
	key := normalizeKey(nameOrAlias)
	if key == "" {
		return nil, false
	}
	if entry, ok := idx.entries[key]; ok {
		return entry, true
	}
	if canonical, ok := idx.aliases[key]; ok {
		return idx.entries[normalizeKey(canonical)], true
	}
	return nil, false
}

// Related returns the immediate related skills of a canonical skill that are
// themselves present in the taxonomy. Related names referencing entries not
// loaded are skipped; relatedness is never a hard dependency.
func (idx *Index) Related(name string) []*types.TaxonomyEntry {
	entry, ok := idx.Resolve(name)
	if !ok {
		return nil
	}

	related := make([]*types.TaxonomyEntry, 0, len(entry.RelatedSkills))
	for _, relName := range entry.RelatedSkills {
		if rel, ok := idx.Resolve(relName); ok {
			related = append(related, rel)
		}
	}
	return related
}

// DifficultyRank returns the ordinal difficulty of a skill, or false if the
// skill is unknown.
func (idx *Index) DifficultyRank(name string) (int, bool) {
	entry, ok := idx.Resolve(name)
	if !ok {
		return 0, false
	}
	return entry.Difficulty.Rank(), true
}

// Len returns the number of canonical entries in the index
func (idx *Index) Len() int {
	return len(idx.entries)
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
