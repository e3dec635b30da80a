// Package storage provides SQLite-based persistence for solve records,
// cached solver results, and race outcomes.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-jelly/internal/multiplayer"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// SolveEntry records one completed level: how many pushes it took and how long.
type SolveEntry struct {
	ID        int64
	LevelID   string
	Moves     int
	Duration  time.Duration
	CreatedAt time.Time
}

// SolutionEntry is a cached solver result for a particular board position.
// StateKey identifies the position, so mid-level hints can be cached too.
type SolutionEntry struct {
	LevelID   string
	StateKey  string
	Path      string // Encoded move list; empty when already solved
	Explored  int
	Solvable  bool
	CreatedAt time.Time
}

// RaceMatchResult represents the outcome of an online race.
type RaceMatchResult struct {
	ID             int64
	MatchID        string
	LevelID        string
	Player1Session string
	Player2Session string
	Moves1         int
	Moves2         int
	WinnerSession  string // Empty if nobody solved (disconnect before a win)
	EndReason      string // "Level solved", "Opponent disconnected", ...
	Duration       int    // Duration in seconds
	CreatedAt      time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS solves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			moves INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_solves_level_id ON solves(level_id);
		CREATE INDEX IF NOT EXISTS idx_solves_best ON solves(level_id, moves);

		CREATE TABLE IF NOT EXISTS solutions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			state_key TEXT NOT NULL,
			path TEXT NOT NULL,
			explored INTEGER NOT NULL DEFAULT 0,
			solvable INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(level_id, state_key)
		);

		CREATE TABLE IF NOT EXISTS race_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			level_id TEXT NOT NULL,
			player1_session TEXT NOT NULL,
			player2_session TEXT NOT NULL,
			moves1 INTEGER NOT NULL DEFAULT 0,
			moves2 INTEGER NOT NULL DEFAULT 0,
			winner_session TEXT,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_race_matches_level_id ON race_matches(level_id);
		CREATE INDEX IF NOT EXISTS idx_race_matches_player1 ON race_matches(player1_session);
		CREATE INDEX IF NOT EXISTS idx_race_matches_player2 ON race_matches(player2_session);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseDBTime converts a scanned created_at value to time.Time.
// The driver may hand back either a time.Time or its string form.
func parseDBTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveSolve records a completed level.
// Returns the ID of the inserted record.
func (s *Store) SaveSolve(levelID string, moves int, duration time.Duration) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO solves (level_id, moves, duration_ms) VALUES (?, ?, ?)",
		levelID, moves, duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save solve: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// BestSolves retrieves the top N solves for the given level.
// Fewest moves first; ties broken by the faster solve.
func (s *Store) BestSolves(levelID string, limit int) ([]SolveEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, moves, duration_ms, created_at
		 FROM solves
		 WHERE level_id = ?
		 ORDER BY moves ASC, duration_ms ASC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solves: %w", err)
	}
	defer rows.Close()

	var entries []SolveEntry
	for rows.Next() {
		var e SolveEntry
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.LevelID, &e.Moves, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.CreatedAt = parseDBTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// AllSolves retrieves all solves for the given level (no limit).
func (s *Store) AllSolves(levelID string) ([]SolveEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, level_id, moves, duration_ms, created_at
		 FROM solves
		 WHERE level_id = ?
		 ORDER BY moves ASC, duration_ms ASC`,
		levelID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solves: %w", err)
	}
	defer rows.Close()

	var entries []SolveEntry
	for rows.Next() {
		var e SolveEntry
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.LevelID, &e.Moves, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.CreatedAt = parseDBTime(createdAt)
		entries = append(entries, e)
	}

	return entries, nil
}

// BestMoves returns the fewest pushes any solve of the level has used.
// Returns 0 if the level has never been solved.
func (s *Store) BestMoves(levelID string) (int, error) {
	var moves sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MIN(moves) FROM solves WHERE level_id = ?",
		levelID,
	).Scan(&moves)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best moves: %w", err)
	}

	if !moves.Valid {
		return 0, nil
	}

	return int(moves.Int64), nil
}

// ClearSolves deletes all solves for the given level.
func (s *Store) ClearSolves(levelID string) error {
	_, err := s.db.Exec("DELETE FROM solves WHERE level_id = ?", levelID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear solves: %w", err)
	}
	return nil
}

// SaveSolution caches a solver result for a board position.
// An existing entry for the same position is replaced.
func (s *Store) SaveSolution(levelID, stateKey, path string, explored int, solvable bool) error {
	_, err := s.db.Exec(
		`INSERT INTO solutions (level_id, state_key, path, explored, solvable)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(level_id, state_key)
		 DO UPDATE SET path = excluded.path, explored = excluded.explored, solvable = excluded.solvable`,
		levelID, stateKey, path, explored, solvable,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save solution: %w", err)
	}
	return nil
}

// CachedSolution retrieves a cached solver result for a board position.
// Returns nil if no entry exists for this level and state key.
func (s *Store) CachedSolution(levelID, stateKey string) (*SolutionEntry, error) {
	var entry SolutionEntry
	var createdAt any

	err := s.db.QueryRow(
		`SELECT level_id, state_key, path, explored, solvable, created_at
		 FROM solutions
		 WHERE level_id = ? AND state_key = ?`,
		levelID, stateKey,
	).Scan(
		&entry.LevelID,
		&entry.StateKey,
		&entry.Path,
		&entry.Explored,
		&entry.Solvable,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solution: %w", err)
	}

	entry.CreatedAt = parseDBTime(createdAt)
	return &entry, nil
}

// ClearSolutions drops all cached solver results for the given level.
// Use after editing a level file, since cached paths refer to the old layout.
func (s *Store) ClearSolutions(levelID string) error {
	_, err := s.db.Exec("DELETE FROM solutions WHERE level_id = ?", levelID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear solutions: %w", err)
	}
	return nil
}

// SaveRaceMatch records the result of an online race.
// Returns the ID of the inserted record.
func (s *Store) SaveRaceMatch(result RaceMatchResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO race_matches
		 (match_id, level_id, player1_session, player2_session, moves1, moves2, winner_session, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.MatchID,
		result.LevelID,
		result.Player1Session,
		result.Player2Session,
		result.Moves1,
		result.Moves2,
		result.WinnerSession,
		result.EndReason,
		result.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save race match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RaceMatchByID retrieves a race match by its match ID.
func (s *Store) RaceMatchByID(matchID string) (*RaceMatchResult, error) {
	var result RaceMatchResult
	var createdAt any
	var winnerSession sql.NullString

	err := s.db.QueryRow(
		`SELECT id, match_id, level_id, player1_session, player2_session,
		        moves1, moves2, winner_session, end_reason, duration_secs, created_at
		 FROM race_matches
		 WHERE match_id = ?`,
		matchID,
	).Scan(
		&result.ID,
		&result.MatchID,
		&result.LevelID,
		&result.Player1Session,
		&result.Player2Session,
		&result.Moves1,
		&result.Moves2,
		&winnerSession,
		&result.EndReason,
		&result.Duration,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query race match: %w", err)
	}

	if winnerSession.Valid {
		result.WinnerSession = winnerSession.String
	}
	result.CreatedAt = parseDBTime(createdAt)

	return &result, nil
}

// RecentRaceMatches retrieves the most recent races.
func (s *Store) RecentRaceMatches(limit int) ([]RaceMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, level_id, player1_session, player2_session,
		        moves1, moves2, winner_session, end_reason, duration_secs, created_at
		 FROM race_matches
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query race matches: %w", err)
	}
	defer rows.Close()

	return scanRaceMatches(rows)
}

// PlayerRaceHistory retrieves race history for a specific session/player.
func (s *Store) PlayerRaceHistory(sessionID string, limit int) ([]RaceMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, level_id, player1_session, player2_session,
		        moves1, moves2, winner_session, end_reason, duration_secs, created_at
		 FROM race_matches
		 WHERE player1_session = ? OR player2_session = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		sessionID, sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player races: %w", err)
	}
	defer rows.Close()

	return scanRaceMatches(rows)
}

func scanRaceMatches(rows *sql.Rows) ([]RaceMatchResult, error) {
	var results []RaceMatchResult
	for rows.Next() {
		var result RaceMatchResult
		var createdAt any
		var winnerSession sql.NullString

		if err := rows.Scan(
			&result.ID,
			&result.MatchID,
			&result.LevelID,
			&result.Player1Session,
			&result.Player2Session,
			&result.Moves1,
			&result.Moves2,
			&winnerSession,
			&result.EndReason,
			&result.Duration,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		if winnerSession.Valid {
			result.WinnerSession = winnerSession.String
		}
		result.CreatedAt = parseDBTime(createdAt)

		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
// This adapter allows the coordinator to save race results without a direct storage dependency.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	result := RaceMatchResult{
		MatchID:        data.MatchID,
		LevelID:        data.LevelID,
		Player1Session: data.Player1Session,
		Player2Session: data.Player2Session,
		Moves1:         data.Moves1,
		Moves2:         data.Moves2,
		WinnerSession:  data.WinnerSession,
		EndReason:      data.EndReason,
		Duration:       data.DurationSecs,
	}
	_, err := s.SaveRaceMatch(result)
	return err
}

// Ensure Store implements MatchResultSaver
var _ multiplayer.MatchResultSaver = (*Store)(nil)

// LevelStats contains aggregated statistics for a level.
type LevelStats struct {
	LevelID    string
	SolveCount int
	BestMoves  int
	AvgMoves   float64
	LastSolved time.Time
}

// GetLevelStats retrieves aggregated statistics for a specific level.
func (s *Store) GetLevelStats(levelID string) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID}

	// Get count, best, avg
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MIN(moves), 0), COALESCE(AVG(moves), 0)
		 FROM solves WHERE level_id = ?`,
		levelID,
	).Scan(&stats.SolveCount, &stats.BestMoves, &stats.AvgMoves)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}

	// Get last solved
	var lastSolved any
	err = s.db.QueryRow(
		`SELECT created_at FROM solves WHERE level_id = ? ORDER BY created_at DESC LIMIT 1`,
		levelID,
	).Scan(&lastSolved)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last solved: %w", err)
	}
	if err == nil {
		stats.LastSolved = parseDBTime(lastSolved)
	}

	return stats, nil
}

// GetAllLevelStats retrieves statistics for all levels that have been solved.
func (s *Store) GetAllLevelStats() (map[string]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id, COUNT(*), MIN(moves), AVG(moves), MAX(created_at)
		 FROM solves
		 GROUP BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*LevelStats)
	for rows.Next() {
		var st LevelStats
		var lastSolved any
		if err := rows.Scan(&st.LevelID, &st.SolveCount, &st.BestMoves, &st.AvgMoves, &lastSolved); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}

		st.LastSolved = parseDBTime(lastSolved)
		stats[st.LevelID] = &st
	}

	return stats, nil
}
