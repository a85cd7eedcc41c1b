// Package store handles SQLite persistence of finished games.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/hoops/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for game history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY,
			run_id TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			duration_sec REAL NOT NULL,
			final_score INTEGER NOT NULL,
			total_shots INTEGER NOT NULL,
			successful_shots INTEGER NOT NULL,
			perfect_shots INTEGER NOT NULL,
			backboard_bonuses INTEGER NOT NULL,
			accuracy REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_games_ended_at ON games(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_games_final_score ON games(final_score);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertGame stores a finished game. An empty RunID is filled with a new UUID.
func (s *Store) InsertGame(ctx context.Context, rec model.GameRecord) (int64, error) {
	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO games (run_id, started_at, ended_at, duration_sec, final_score, total_shots, successful_shots, perfect_shots, backboard_bonuses, accuracy)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Duration,
		rec.Stats.FinalScore,
		rec.Stats.TotalShots,
		rec.Stats.SuccessfulShots,
		rec.Stats.PerfectShots,
		rec.Stats.BackboardBonuses,
		rec.Stats.Accuracy,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const gameColumns = `id, run_id, started_at, ended_at, duration_sec, final_score, total_shots, successful_shots, perfect_shots, backboard_bonuses, accuracy`

// ListGames returns games filtered by Since, oldest first.
func (s *Store) ListGames(ctx context.Context, filter model.HistoryFilter) ([]model.GameRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, filter.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT %s
		FROM games
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, gameColumns, strings.Join(clauses, " AND "))
	return s.queryGames(ctx, query, args...)
}

// BestGames returns the n highest-scoring games. Ties go to the earlier game.
func (s *Store) BestGames(ctx context.Context, n int) ([]model.GameRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s
		FROM games
		ORDER BY final_score DESC, ended_at ASC, id ASC
		LIMIT ?`, gameColumns)
	return s.queryGames(ctx, query, n)
}

func (s *Store) queryGames(ctx context.Context, query string, args ...any) ([]model.GameRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var games []model.GameRecord
	for rows.Next() {
		var rec model.GameRecord
		var startedAt, endedAt string
		if err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&startedAt,
			&endedAt,
			&rec.Duration,
			&rec.Stats.FinalScore,
			&rec.Stats.TotalShots,
			&rec.Stats.SuccessfulShots,
			&rec.Stats.PerfectShots,
			&rec.Stats.BackboardBonuses,
			&rec.Stats.Accuracy,
		); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		games = append(games, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}
