// Copyright 2025 James Ross
// Package historicalstore is a worked example of the Historical store
// adapter: a small collaborator the calibration core never imports
// directly, reached only through calibration.HistoricalStore.
package historicalstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/riskforge/montecarlo/internal/calibration"
)

// SQLiteStore persists completed-project history in a local SQLite
// database. It satisfies calibration.HistoricalStore.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite database at path and
// ensures its schema exists.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			project_type TEXT NOT NULL,
			actual_cost REAL NOT NULL,
			baseline_cost REAL NOT NULL,
			actual_duration REAL NOT NULL,
			baseline_duration REAL NOT NULL
		);

		CREATE TABLE IF NOT EXISTS project_characteristics (
			project_id TEXT NOT NULL REFERENCES projects(id),
			name TEXT NOT NULL,
			value REAL NOT NULL,
			PRIMARY KEY (project_id, name)
		);

		CREATE TABLE IF NOT EXISTS realized_impacts (
			project_id TEXT NOT NULL REFERENCES projects(id),
			risk_id TEXT NOT NULL,
			impact REAL NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_realized_impacts_project_risk
			ON realized_impacts (project_id, risk_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveCompletedProject upserts a project and replaces its
// characteristics and realized-impact rows.
func (s *SQLiteStore) SaveCompletedProject(ctx context.Context, p calibration.CompletedProject) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (id, project_type, actual_cost, baseline_cost, actual_duration, baseline_duration)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_type=excluded.project_type, actual_cost=excluded.actual_cost,
			baseline_cost=excluded.baseline_cost, actual_duration=excluded.actual_duration,
			baseline_duration=excluded.baseline_duration`,
		p.ID, p.ProjectType, p.ActualCost, p.BaselineCost, p.ActualDuration, p.BaselineDuration)
	if err != nil {
		return fmt.Errorf("upsert project %q: %w", p.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_characteristics WHERE project_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clear characteristics for %q: %w", p.ID, err)
	}
	for name, value := range p.Characteristics {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_characteristics (project_id, name, value) VALUES (?, ?, ?)`,
			p.ID, name, value); err != nil {
			return fmt.Errorf("insert characteristic %q for %q: %w", name, p.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM realized_impacts WHERE project_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clear realized impacts for %q: %w", p.ID, err)
	}
	for riskID, samples := range p.RealizedImpacts {
		for _, v := range samples {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO realized_impacts (project_id, risk_id, impact) VALUES (?, ?, ?)`,
				p.ID, riskID, v); err != nil {
				return fmt.Errorf("insert realized impact for %q/%q: %w", p.ID, riskID, err)
			}
		}
	}

	return tx.Commit()
}

// LoadCompletedProjects implements calibration.HistoricalStore.
func (s *SQLiteStore) LoadCompletedProjects(ctx context.Context) ([]calibration.CompletedProject, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_type, actual_cost, baseline_cost, actual_duration, baseline_duration
		FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []calibration.CompletedProject
	byID := make(map[string]*calibration.CompletedProject)
	for rows.Next() {
		var p calibration.CompletedProject
		if err := rows.Scan(&p.ID, &p.ProjectType, &p.ActualCost, &p.BaselineCost, &p.ActualDuration, &p.BaselineDuration); err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		p.Characteristics = map[string]float64{}
		p.RealizedImpacts = map[string][]float64{}
		projects = append(projects, p)
		byID[p.ID] = &projects[len(projects)-1]
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadCharacteristics(ctx, byID); err != nil {
		return nil, err
	}
	if err := s.loadRealizedImpacts(ctx, byID); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *SQLiteStore) loadCharacteristics(ctx context.Context, byID map[string]*calibration.CompletedProject) error {
	rows, err := s.db.QueryContext(ctx, `SELECT project_id, name, value FROM project_characteristics`)
	if err != nil {
		return fmt.Errorf("query characteristics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID, name string
		var value float64
		if err := rows.Scan(&projectID, &name, &value); err != nil {
			return fmt.Errorf("scan characteristic row: %w", err)
		}
		if p, ok := byID[projectID]; ok {
			p.Characteristics[name] = value
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) loadRealizedImpacts(ctx context.Context, byID map[string]*calibration.CompletedProject) error {
	rows, err := s.db.QueryContext(ctx, `SELECT project_id, risk_id, impact FROM realized_impacts ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("query realized impacts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID, riskID string
		var impact float64
		if err := rows.Scan(&projectID, &riskID, &impact); err != nil {
			return fmt.Errorf("scan realized impact row: %w", err)
		}
		if p, ok := byID[projectID]; ok {
			p.RealizedImpacts[riskID] = append(p.RealizedImpacts[riskID], impact)
		}
	}
	return rows.Err()
}
