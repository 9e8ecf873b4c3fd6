// Package store persists integration runs and down-sampled trajectories in
// a local SQLite database.
package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/san-kum/symgrad/internal/nbody"
)

// DB wraps the SQLite connection holding runs and samples.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the database at path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error { return db.conn.Close() }

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		scheme TEXT NOT NULL,
		bodies INTEGER NOT NULL,
		h REAL NOT NULL,
		t0 REAL NOT NULL,
		tmax REAL NOT NULL,
		steps INTEGER NOT NULL,
		wall_ms INTEGER NOT NULL,
		energy_drift REAL NOT NULL,
		jac_det REAL NOT NULL,
		finite INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS samples (
		run_id TEXT NOT NULL REFERENCES runs(id),
		step INTEGER NOT NULL,
		t REAL NOT NULL,
		body INTEGER NOT NULL,
		x REAL NOT NULL, y REAL NOT NULL, z REAL NOT NULL,
		vx REAL NOT NULL, vy REAL NOT NULL, vz REAL NOT NULL,
		PRIMARY KEY (run_id, step, body)
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Run is one stored integration run.
type Run struct {
	ID          string    `db:"id"`
	CreatedAt   time.Time `db:"created_at"`
	Scheme      string    `db:"scheme"`
	Bodies      int       `db:"bodies"`
	H           float64   `db:"h"`
	T0          float64   `db:"t0"`
	Tmax        float64   `db:"tmax"`
	Steps       int       `db:"steps"`
	WallMS      int64     `db:"wall_ms"`
	EnergyDrift float64   `db:"energy_drift"`
	JacDet      float64   `db:"jac_det"`
	Finite      bool      `db:"finite"`
}

// Sample is one body's state at one sampled step.
type Sample struct {
	RunID string  `db:"run_id"`
	Step  int     `db:"step"`
	T     float64 `db:"t"`
	Body  int     `db:"body"`
	X     float64 `db:"x"`
	Y     float64 `db:"y"`
	Z     float64 `db:"z"`
	VX    float64 `db:"vx"`
	VY    float64 `db:"vy"`
	VZ    float64 `db:"vz"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string { return uuid.NewString() }

// SaveRun inserts the run row.
func (db *DB) SaveRun(run *Run) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := db.conn.NamedExec(`
		INSERT INTO runs (id, created_at, scheme, bodies, h, t0, tmax, steps, wall_ms, energy_drift, jac_det, finite)
		VALUES (:id, :created_at, :scheme, :bodies, :h, :t0, :tmax, :steps, :wall_ms, :energy_drift, :jac_det, :finite)`,
		run)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// SaveSample appends one sampled state snapshot for every body.
func (db *DB) SaveSample(runID string, step int, s *nbody.State) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return fmt.Errorf("save sample: %w", err)
	}
	for i := 0; i < s.N; i++ {
		_, err := tx.Exec(`
			INSERT INTO samples (run_id, step, t, body, x, y, z, vx, vy, vz)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, step, s.T[0], i,
			s.X[3*i], s.X[3*i+1], s.X[3*i+2],
			s.V[3*i], s.V[3*i+1], s.V[3*i+2])
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("save sample: %w", err)
		}
	}
	return tx.Commit()
}

// ListRuns returns all runs, newest first.
func (db *DB) ListRuns() ([]Run, error) {
	var runs []Run
	if err := db.conn.Select(&runs, `SELECT * FROM runs ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// LoadRun returns one run by ID.
func (db *DB) LoadRun(id string) (*Run, error) {
	var run Run
	if err := db.conn.Get(&run, `SELECT * FROM runs WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	return &run, nil
}

// LoadSamples returns a run's samples ordered by step then body.
func (db *DB) LoadSamples(runID string) ([]Sample, error) {
	var samples []Sample
	err := db.conn.Select(&samples,
		`SELECT * FROM samples WHERE run_id = ? ORDER BY step, body`, runID)
	if err != nil {
		return nil, fmt.Errorf("load samples for %s: %w", runID, err)
	}
	return samples, nil
}
