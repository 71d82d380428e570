// Copyright 2025 James Ross
package historicalstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PaesslerAG/jsonpath"
	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/riskforge/montecarlo/internal/calibration"
)

// FieldMap names the JSONPath expression used to pull each
// CompletedProject field out of a heterogeneous document. The zero
// value is DefaultFieldMap.
type FieldMap struct {
	ID               string
	ProjectType      string
	ActualCost       string
	BaselineCost     string
	ActualDuration   string
	BaselineDuration string
	Characteristics  string // path to an object of name -> number
	RealizedImpacts  string // path to an object of risk ID -> array of numbers
}

// DefaultFieldMap matches a document shaped like:
//
//	{
//	  "id": "proj-42", "project_type": "data_migration",
//	  "actual_cost": 120000, "baseline_cost": 100000,
//	  "actual_duration": 95, "baseline_duration": 80,
//	  "characteristics": {"team_size": 8, "loc": 50000},
//	  "realized_impacts": {"vendor-delay": [12000, 9000]}
//	}
func DefaultFieldMap() FieldMap {
	return FieldMap{
		ID:               "$.id",
		ProjectType:      "$.project_type",
		ActualCost:       "$.actual_cost",
		BaselineCost:     "$.baseline_cost",
		ActualDuration:   "$.actual_duration",
		BaselineDuration: "$.baseline_duration",
		Characteristics:  "$.characteristics",
		RealizedImpacts:  "$.realized_impacts",
	}
}

// FileStore loads completed-project records from a directory of
// JSON/YAML documents matched by a doublestar glob pattern, extracting
// fields via FieldMap. It satisfies calibration.HistoricalStore.
type FileStore struct {
	root    string
	pattern string
	fields  FieldMap
	log     *zap.Logger
}

// NewFileStore builds a FileStore rooted at dir, matching files
// against pattern (a doublestar pattern relative to dir, e.g.
// "**/*.json"). log may be nil.
func NewFileStore(dir, pattern string, fields FieldMap, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	if fields == (FieldMap{}) {
		fields = DefaultFieldMap()
	}
	return &FileStore{root: dir, pattern: pattern, fields: fields, log: log}
}

// LoadCompletedProjects implements calibration.HistoricalStore.
func (f *FileStore) LoadCompletedProjects(ctx context.Context) ([]calibration.CompletedProject, error) {
	var projects []calibration.CompletedProject

	err := filepath.WalkDir(f.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, err := filepath.Rel(f.root, path)
		if err != nil {
			return nil
		}
		ok, _ := doublestar.PathMatch(f.pattern, rel)
		if !ok {
			return nil
		}

		doc, err := parseDocument(path)
		if err != nil {
			f.log.Warn("skipping unparseable completed-project document", zap.String("path", path), zap.Error(err))
			return nil
		}

		project, err := f.extract(doc)
		if err != nil {
			f.log.Warn("skipping document missing required fields", zap.String("path", path), zap.Error(err))
			return nil
		}
		projects = append(projects, project)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", f.root, err)
	}
	return projects, nil
}

func parseDocument(path string) (interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc interface{}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		doc = normalizeYAML(doc)
	default:
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// normalizeYAML recursively rebuilds a decoded YAML document so every
// map is a map[string]interface{} (converting any
// map[interface{}]interface{} node by formatting its keys with %v),
// which is the shape jsonpath walks.
func normalizeYAML(v interface{}) interface{} {
	switch m := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[k] = normalizeYAML(val)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(m))
		for i, val := range m {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}

func (f *FileStore) extract(doc interface{}) (calibration.CompletedProject, error) {
	var p calibration.CompletedProject

	id, err := jsonpath.Get(f.fields.ID, doc)
	if err != nil {
		return p, fmt.Errorf("id: %w", err)
	}
	p.ID = fmt.Sprintf("%v", id)

	if v, err := jsonpath.Get(f.fields.ProjectType, doc); err == nil {
		p.ProjectType = fmt.Sprintf("%v", v)
	}
	p.ActualCost = extractFloat(f.fields.ActualCost, doc)
	p.BaselineCost = extractFloat(f.fields.BaselineCost, doc)
	p.ActualDuration = extractFloat(f.fields.ActualDuration, doc)
	p.BaselineDuration = extractFloat(f.fields.BaselineDuration, doc)

	p.Characteristics = map[string]float64{}
	if v, err := jsonpath.Get(f.fields.Characteristics, doc); err == nil {
		if m, ok := v.(map[string]interface{}); ok {
			for k, val := range m {
				if n, ok := toFloat(val); ok {
					p.Characteristics[k] = n
				}
			}
		}
	}

	p.RealizedImpacts = map[string][]float64{}
	if v, err := jsonpath.Get(f.fields.RealizedImpacts, doc); err == nil {
		if m, ok := v.(map[string]interface{}); ok {
			for riskID, val := range m {
				arr, ok := val.([]interface{})
				if !ok {
					continue
				}
				samples := make([]float64, 0, len(arr))
				for _, e := range arr {
					if n, ok := toFloat(e); ok {
						samples = append(samples, n)
					}
				}
				p.RealizedImpacts[riskID] = samples
			}
		}
	}

	return p, nil
}

func extractFloat(path string, doc interface{}) float64 {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return 0
	}
	n, _ := toFloat(v)
	return n
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
