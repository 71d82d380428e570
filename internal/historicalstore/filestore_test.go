// Copyright 2025 James Ross
package historicalstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "id": "proj-42",
  "project_type": "data_migration",
  "actual_cost": 120000,
  "baseline_cost": 100000,
  "actual_duration": 95,
  "baseline_duration": 80,
  "characteristics": {"team_size": 8, "loc": 50000},
  "realized_impacts": {"vendor-delay": [12000, 9000]}
}`

const sampleYAML = `
id: proj-43
project_type: data_migration
actual_cost: 80000
baseline_cost: 90000
actual_duration: 60
baseline_duration: 70
characteristics:
  team_size: 5
realized_impacts:
  scope-creep: [4000, 4500]
`

func TestFileStoreLoadsJSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "proj-42.json"), []byte(sampleJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "proj-43.yaml"), []byte(sampleYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("not a project"), 0o644))

	store := NewFileStore(dir, "**/*.{json,yaml}", DefaultFieldMap(), nil)
	projects, err := store.LoadCompletedProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)

	byID := map[string]bool{}
	for _, p := range projects {
		byID[p.ID] = true
	}
	assert.True(t, byID["proj-42"])
	assert.True(t, byID["proj-43"])
}

func TestFileStoreExtractsCharacteristicsAndImpacts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "proj.json"), []byte(sampleJSON), 0o644))

	store := NewFileStore(dir, "*.json", DefaultFieldMap(), nil)
	projects, err := store.LoadCompletedProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)

	p := projects[0]
	assert.Equal(t, 120000.0, p.ActualCost)
	assert.Equal(t, 8.0, p.Characteristics["team_size"])
	assert.ElementsMatch(t, []float64{12000, 9000}, p.RealizedImpacts["vendor-delay"])
}

func TestFileStoreSkipsUnparseableDocuments(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not valid json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.json"), []byte(sampleJSON), 0o644))

	store := NewFileStore(dir, "*.json", DefaultFieldMap(), nil)
	projects, err := store.LoadCompletedProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "proj-42", projects[0].ID)
}

func TestFileStoreGlobPatternExcludesNonMatching(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "archive"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "archive", "old.json"), []byte(sampleJSON), 0o644))

	store := NewFileStore(dir, "*.json", DefaultFieldMap(), nil) // non-recursive pattern
	projects, err := store.LoadCompletedProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}
