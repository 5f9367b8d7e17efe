package reportdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/charleschow/tt-momentum/internal/core/state/match"
	"github.com/charleschow/tt-momentum/internal/events"
	"github.com/charleschow/tt-momentum/internal/telemetry"

	_ "modernc.org/sqlite"
)

// Run describes one pass of the engine over a match.
type Run struct {
	ID        string
	Started   time.Time
	Title     string
	PlayerOne string
	PlayerTwo string
	Model     string
	Seed      uint64
	Trials    int

	// Filled in by FinishRun.
	Points   int
	SetsOne  int
	SetsTwo  int
	Finished bool
}

// Store writes per-point engine output to SQLite so runs can be compared
// and plotted after the fact.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			started     TEXT NOT NULL,
			title       TEXT,
			player_one  TEXT,
			player_two  TEXT,
			model       TEXT,
			seed        TEXT,
			trials      INTEGER,
			points      INTEGER,
			sets_one    INTEGER,
			sets_two    INTEGER,
			finished    INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS points (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT    NOT NULL REFERENCES runs(id),
			idx         INTEGER NOT NULL,
			set_no      INTEGER NOT NULL,
			winner      INTEGER NOT NULL,
			score_one   INTEGER NOT NULL,
			score_two   INTEGER NOT NULL,
			leverage    REAL,
			g_one       REAL,
			g_two       REAL,
			m_one       REAL,
			m_two       REAL,
			p_one       REAL,
			p_two       REAL,
			win_prob    REAL,
			exp_points  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_points_run ON points(run_id, idx)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema (%s): %w", stmt, err)
		}
	}

	var runs int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs); err != nil {
		db.Close()
		return nil, fmt.Errorf("read run count: %w", err)
	}
	telemetry.Plainf("report store: opened %s  runs=%d", path, runs)

	return &Store{db: db}, nil
}

// BeginRun records r and returns its id. A fresh UUID is assigned when
// r.ID is empty.
func (s *Store) BeginRun(r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Started.IsZero() {
		r.Started = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO runs (id, started, title, player_one, player_two, model, seed, trials)
		VALUES (?,?,?,?,?,?,?,?)`,
		r.ID,
		r.Started.UTC().Format(time.RFC3339Nano),
		r.Title,
		r.PlayerOne,
		r.PlayerTwo,
		r.Model,
		strconv.FormatUint(r.Seed, 10),
		r.Trials,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return r.ID, nil
}

func (s *Store) InsertPoint(runID string, p events.PointScored) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO points (
			run_id, idx, set_no, winner, score_one, score_two,
			leverage, g_one, g_two, m_one, m_two, p_one, p_two,
			win_prob, exp_points
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		runID, p.Index, p.Set, int(p.Winner), p.Score.One, p.Score.Two,
		p.Leverage, p.Contribution.One, p.Contribution.Two,
		p.Momentum.One, p.Momentum.Two,
		p.Probability.One, p.Probability.Two,
		p.WinProb, p.ExpectedPoints,
	)
	if err != nil {
		return fmt.Errorf("insert point %d: %w", p.Index, err)
	}
	return nil
}

func (s *Store) FinishRun(runID string, m events.MatchFinished) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`UPDATE runs SET points = ?, sets_one = ?, sets_two = ?, finished = 1 WHERE id = ?`,
		m.Points, m.Sets.One, m.Sets.Two, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run %s: no such run", runID)
	}
	return nil
}

// Attach writes every point and the match summary published on bus under
// runID.
func (s *Store) Attach(bus *events.Bus, runID string) {
	bus.Subscribe(events.EventPointScored, func(e events.Event) error {
		p, ok := e.Payload.(events.PointScored)
		if !ok {
			return fmt.Errorf("unexpected payload %T", e.Payload)
		}
		if err := s.InsertPoint(runID, p); err != nil {
			telemetry.Metrics.ReportErrors.Inc()
			return err
		}
		telemetry.Metrics.ReportRows.Inc()
		return nil
	})
	bus.Subscribe(events.EventMatchFinished, func(e events.Event) error {
		m, ok := e.Payload.(events.MatchFinished)
		if !ok {
			return fmt.Errorf("unexpected payload %T", e.Payload)
		}
		if err := s.FinishRun(runID, m); err != nil {
			telemetry.Metrics.ReportErrors.Inc()
			return err
		}
		return nil
	})
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, started, COALESCE(title,''), COALESCE(player_one,''), COALESCE(player_two,''),
			COALESCE(model,''), COALESCE(seed,'0'), COALESCE(trials,0),
			COALESCE(points,0), COALESCE(sets_one,0), COALESCE(sets_two,0), finished
		FROM runs ORDER BY started DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r       Run
			started string
			seed    string
			done    int
		)
		if err := rows.Scan(&r.ID, &started, &r.Title, &r.PlayerOne, &r.PlayerTwo,
			&r.Model, &seed, &r.Trials, &r.Points, &r.SetsOne, &r.SetsTwo, &done); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Started, _ = time.Parse(time.RFC3339Nano, started)
		r.Seed, _ = strconv.ParseUint(seed, 10, 64)
		r.Finished = done == 1
		out = append(out, r)
	}
	return out, rows.Err()
}

// Points returns the stored points of a run in play order.
func (s *Store) Points(runID string) ([]events.PointScored, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT idx, set_no, winner, score_one, score_two,
			leverage, g_one, g_two, m_one, m_two, p_one, p_two, win_prob, exp_points
		FROM points WHERE run_id = ? ORDER BY idx ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}
	defer rows.Close()

	var out []events.PointScored
	for rows.Next() {
		var (
			p      events.PointScored
			winner int
		)
		if err := rows.Scan(&p.Index, &p.Set, &winner, &p.Score.One, &p.Score.Two,
			&p.Leverage, &p.Contribution.One, &p.Contribution.Two,
			&p.Momentum.One, &p.Momentum.Two,
			&p.Probability.One, &p.Probability.Two,
			&p.WinProb, &p.ExpectedPoints); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		p.Winner = match.Side(winner)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
