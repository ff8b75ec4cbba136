package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTaxonomyCommand_Valid(t *testing.T) {
	binaryPath := getBinaryPath(t)
	tmpDir := t.TempDir()

	taxonomyFile := filepath.Join(tmpDir, "taxonomy.json")
	require.NoError(t, os.WriteFile(taxonomyFile, []byte(testTaxonomy), 0644))

	cmd := exec.Command(binaryPath, "validate-taxonomy", "--taxonomy", taxonomyFile)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "Command failed with output: %s", string(output))

	assert.Contains(t, string(output), "Taxonomy is valid")
	assert.Contains(t, string(output), "2 skill(s)")
}

func TestValidateTaxonomyCommand_DuplicateAlias(t *testing.T) {
	binaryPath := getBinaryPath(t)
	tmpDir := t.TempDir()

	duplicated := `[
		{"name": "Python", "category": "programming", "difficulty_level": "beginner", "aliases": ["Py"]},
		{"name": "Pytorch", "category": "data science", "difficulty_level": "advanced", "aliases": ["Py"]}
	]`
	taxonomyFile := filepath.Join(tmpDir, "taxonomy.json")
	require.NoError(t, os.WriteFile(taxonomyFile, []byte(duplicated), 0644))

	cmd := exec.Command(binaryPath, "validate-taxonomy", "--taxonomy", taxonomyFile)
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "taxonomy is invalid")
}

func TestValidateTaxonomyCommand_MissingFile(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "validate-taxonomy", "--taxonomy", "/nonexistent/taxonomy.json")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "taxonomy is invalid")
}
