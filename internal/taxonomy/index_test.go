package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillgap-recommender/internal/types"
)

func testEntries() []types.TaxonomyEntry {
	return []types.TaxonomyEntry{
		{
			Name:       "Python",
			Category:   "programming",
			Difficulty: types.DifficultyBeginner,
			Aliases:    []string{"Py", "python3"},
		},
		{
			Name:          "Machine Learning",
			Category:      "data",
			Difficulty:    types.DifficultyAdvanced,
			Aliases:       []string{"ML"},
			RelatedSkills: []string{"Python", "Statistics"},
		},
		{
			Name:       "Kubernetes",
			Category:   "infrastructure",
			Difficulty: types.DifficultyIntermediate,
			Aliases:    []string{"k8s"},
		},
	}
}

func TestNewIndex_ResolveCanonical(t *testing.T) {
	idx, err := NewIndex(testEntries())
	require.NoError(t, err)

	entry, ok := idx.Resolve("Python")
	require.True(t, ok)
	assert.Equal(t, "Python", entry.Name)
	assert.Equal(t, "programming", entry.Category)
}

func TestNewIndex_ResolveAliasCaseInsensitive(t *testing.T) {
	idx, err := NewIndex(testEntries())
	require.NoError(t, err)

	// Every alias of every entry resolves to the owning canonical entry,
	// regardless of case or surrounding whitespace.
	cases := []struct {
		input string
		want  string
	}{
		{"Py", "Python"},
		{"py", "Python"},
		{"  PY  ", "Python"},
		{"python3", "Python"},
		{"ml", "Machine Learning"},
		{"K8S", "Kubernetes"},
		{"kubernetes", "Kubernetes"},
	}

	for _, tc := range cases {
		entry, ok := idx.Resolve(tc.input)
		require.True(t, ok, "expected %q to resolve", tc.input)
		assert.Equal(t, tc.want, entry.Name)
	}
}

func TestNewIndex_ResolveUnknown(t *testing.T) {
	idx, err := NewIndex(testEntries())
	require.NoError(t, err)

	entry, ok := idx.Resolve("COBOL")
	assert.False(t, ok)
	assert.Nil(t, entry)

	entry, ok = idx.Resolve("   ")
	assert.False(t, ok)
	assert.Nil(t, entry)
}

func TestNewIndex_DuplicateAliasFatal(t *testing.T) {
	entries := testEntries()
	entries = append(entries, types.TaxonomyEntry{
		Name:       "Micropython",
		Category:   "programming",
		Difficulty: types.DifficultyAdvanced,
		Aliases:    []string{"py"}, // collides with Python's alias
	})

	_, err := NewIndex(entries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "py")
}

func TestNewIndex_AliasCollidingWithCanonicalFatal(t *testing.T) {
	entries := testEntries()
	entries = append(entries, types.TaxonomyEntry{
		Name:       "Container Orchestration",
		Category:   "infrastructure",
		Difficulty: types.DifficultyAdvanced,
		Aliases:    []string{"Kubernetes"},
	})

	_, err := NewIndex(entries)
	require.Error(t, err)
}

func TestNewIndex_DuplicateEntryFatal(t *testing.T) {
	entries := testEntries()
	entries = append(entries, types.TaxonomyEntry{
		Name:       "python",
		Category:   "programming",
		Difficulty: types.DifficultyBeginner,
	})

	_, err := NewIndex(entries)
	require.Error(t, err)
}

func TestRelated_SkipsUnloadedSkills(t *testing.T) {
	idx, err := NewIndex(testEntries())
	require.NoError(t, err)

	// "Statistics" is referenced but not loaded; only Python comes back.
	related := idx.Related("ML")
	require.Len(t, related, 1)
	assert.Equal(t, "Python", related[0].Name)
}

func TestRelated_UnknownSkillEmpty(t *testing.T) {
	idx, err := NewIndex(testEntries())
	require.NoError(t, err)

	assert.Empty(t, idx.Related("COBOL"))
}

func TestDifficultyRank(t *testing.T) {
	idx, err := NewIndex(testEntries())
	require.NoError(t, err)

	rank, ok := idx.DifficultyRank("py")
	require.True(t, ok)
	assert.Equal(t, 0, rank)

	rank, ok = idx.DifficultyRank("k8s")
	require.True(t, ok)
	assert.Equal(t, 1, rank)

	rank, ok = idx.DifficultyRank("ML")
	require.True(t, ok)
	assert.Equal(t, 2, rank)

	_, ok = idx.DifficultyRank("unknown")
	assert.False(t, ok)
}
