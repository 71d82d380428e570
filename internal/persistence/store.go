// Copyright 2025 James Ross
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/riskforge/montecarlo/internal/riskmodel"
	"github.com/riskforge/montecarlo/internal/validator"
)

// Store persists SimulationResults, Scenario, and ChangeReport
// documents as JSON files under a root directory, validating every
// document against its schema both on write and before unmarshaling
// on read.
type Store struct {
	root string
	log  *zap.Logger
}

// NewStore creates (if necessary) root and returns a Store rooted there.
func NewStore(root string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create persistence root %q: %w", root, err)
	}
	return &Store{root: root, log: log}, nil
}

func (s *Store) path(kind DocumentKind, id string) string {
	return filepath.Join(s.root, string(kind), id+".json")
}

func (s *Store) write(kind DocumentKind, id string, doc interface{}) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s %q: %w", kind, id, err)
	}
	if err := ValidateDocument(kind, raw); err != nil {
		return fmt.Errorf("validate %s %q before write: %w", kind, id, err)
	}

	path := s.path(kind, id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s %q: %w", kind, id, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s %q: %w", kind, id, err)
	}
	s.log.Debug("persisted document", zap.String("kind", string(kind)), zap.String("id", id), zap.String("path", path))
	return nil
}

func (s *Store) read(kind DocumentKind, id string, out interface{}) error {
	path := s.path(kind, id)
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s %q: %w", kind, id, err)
	}
	if err := ValidateDocument(kind, raw); err != nil {
		return fmt.Errorf("validate %s %q before load: %w", kind, id, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal %s %q: %w", kind, id, err)
	}
	return nil
}

// SaveResults writes r under its SimulationID.
func (s *Store) SaveResults(r *riskmodel.SimulationResults) error {
	return s.write(DocumentResults, r.SimulationID, ResultsToDocument(r))
}

// LoadResults reads back the SimulationResults saved under id.
func (s *Store) LoadResults(id string) (*riskmodel.SimulationResults, error) {
	var doc ResultsDocument
	if err := s.read(DocumentResults, id, &doc); err != nil {
		return nil, err
	}
	return DocumentToResults(doc)
}

// SaveScenario writes sc under its ID, including its cached Results if present.
func (s *Store) SaveScenario(sc *riskmodel.Scenario) error {
	return s.write(DocumentScenario, sc.ID, ScenarioToDocument(sc))
}

// LoadScenario reads back the Scenario saved under id.
func (s *Store) LoadScenario(id string) (*riskmodel.Scenario, error) {
	var doc ScenarioDocument
	if err := s.read(DocumentScenario, id, &doc); err != nil {
		return nil, err
	}
	return DocumentToScenario(doc)
}

// SaveChangeReport writes report under id (typically the pair of
// simulation or scenario IDs it compares).
func (s *Store) SaveChangeReport(id string, report *validator.ChangeReport) error {
	return s.write(DocumentChangeReport, id, ChangeReportToDocument(report))
}

// LoadChangeReport reads back the ChangeReport saved under id.
func (s *Store) LoadChangeReport(id string) (*validator.ChangeReport, error) {
	var doc ChangeReportDocument
	if err := s.read(DocumentChangeReport, id, &doc); err != nil {
		return nil, err
	}
	return DocumentToChangeReport(doc), nil
}
