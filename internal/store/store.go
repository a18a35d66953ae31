// Package store keeps the session log in an in-memory SQLite database. It
// lives as long as the process and is never written to disk.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/glyphflash/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the session log.
type Store struct {
	db *sql.DB
}

// Open creates the in-memory database and applies migrations.
func Open(ctx context.Context) (*Store, error) {
	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open session log: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to migrate session log: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL DEFAULT '',
			letters INTEGER NOT NULL,
			progression TEXT NOT NULL,
			policy TEXT NOT NULL,
			round_cap INTEGER NOT NULL,
			rounds INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			accuracy REAL NOT NULL DEFAULT 100,
			completed INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS rounds (
			game_id INTEGER NOT NULL REFERENCES games(id),
			round INTEGER NOT NULL,
			played_at TEXT NOT NULL,
			target TEXT NOT NULL,
			guess TEXT NOT NULL,
			position INTEGER NOT NULL,
			letter INTEGER NOT NULL,
			miss INTEGER NOT NULL,
			reflashes INTEGER NOT NULL,
			score INTEGER NOT NULL,
			speed_before_ns INTEGER NOT NULL,
			speed_after_ns INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			PRIMARY KEY (game_id, round)
		);`,
		`CREATE TABLE IF NOT EXISTS round_letters (
			game_id INTEGER NOT NULL,
			round INTEGER NOT NULL,
			letter TEXT NOT NULL,
			placed INTEGER NOT NULL,
			recalled INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_round_letters_letter ON round_letters(letter);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertGame stores a started game and returns its id.
func (s *Store) InsertGame(ctx context.Context, g model.GameRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO games (started_at, letters, progression, policy, round_cap)
		 VALUES (?, ?, ?, ?, ?)`,
		formatTime(g.StartedAt), g.Letters, g.Progression, g.Policy, g.RoundCap)
	if err != nil {
		return 0, fmt.Errorf("failed to insert game: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read game id: %w", err)
	}
	return id, nil
}

// FinishGame stores the final counters of game g.ID.
func (s *Store) FinishGame(ctx context.Context, g model.GameRecord) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE games SET ended_at = ?, rounds = ?, score = ?, accuracy = ?, completed = ?
		 WHERE id = ?`,
		formatTime(g.EndedAt), g.Rounds, g.Score, g.Accuracy, boolInt(g.Completed), g.ID)
	if err != nil {
		return fmt.Errorf("failed to finish game: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("game %d not found", g.ID)
	}
	return nil
}

// InsertRound stores a scored round and its per-letter outcome.
func (s *Store) InsertRound(ctx context.Context, r model.RoundRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO rounds (game_id, round, played_at, target, guess, position, letter, miss, reflashes, score, speed_before_ns, speed_after_ns, outcome)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Round, formatTime(r.PlayedAt), r.Target, r.Guess,
		r.Position, r.Letter, r.Miss, r.Reflashes, r.Score,
		int64(r.SpeedBefore), int64(r.SpeedAfter), r.Outcome)
	if err != nil {
		return fmt.Errorf("failed to insert round: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO round_letters (game_id, round, letter, placed, recalled) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	target := []rune(r.Target)
	guess := []rune(r.Guess)
	for i, letter := range target {
		placed := i < len(guess) && guess[i] == letter
		recalled := strings.ContainsRune(r.Guess, letter)
		if _, err = stmt.ExecContext(ctx, r.GameID, r.Round, string(letter), boolInt(placed), boolInt(recalled)); err != nil {
			return fmt.Errorf("failed to insert round letter: %w", err)
		}
	}
	return tx.Commit()
}

// ListGames returns every game in start order.
func (s *Store) ListGames(ctx context.Context) ([]model.GameRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, ended_at, letters, progression, policy, round_cap, rounds, score, accuracy, completed
		 FROM games ORDER BY id ASC`)
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
		var g model.GameRecord
		var startedAt, endedAt string
		var completed int
		if err := rows.Scan(&g.ID, &startedAt, &endedAt, &g.Letters, &g.Progression, &g.Policy,
			&g.RoundCap, &g.Rounds, &g.Score, &g.Accuracy, &completed); err != nil {
			return nil, err
		}
		if g.StartedAt, err = parseTime(startedAt); err != nil {
			return nil, err
		}
		if g.EndedAt, err = parseTime(endedAt); err != nil {
			return nil, err
		}
		g.Completed = completed != 0
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

// ListRounds returns the rounds of one game, or of every game when gameID is 0.
func (s *Store) ListRounds(ctx context.Context, gameID int64) ([]model.RoundRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, round, played_at, target, guess, position, letter, miss, reflashes, score, speed_before_ns, speed_after_ns, outcome
		 FROM rounds
		 WHERE (? = 0 OR game_id = ?)
		 ORDER BY game_id ASC, round ASC`, gameID, gameID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var rounds []model.RoundRecord
	for rows.Next() {
		var r model.RoundRecord
		var playedAt string
		var before, after int64
		if err := rows.Scan(&r.GameID, &r.Round, &playedAt, &r.Target, &r.Guess, &r.Position, &r.Letter,
			&r.Miss, &r.Reflashes, &r.Score, &before, &after, &r.Outcome); err != nil {
			return nil, err
		}
		if r.PlayedAt, err = parseTime(playedAt); err != nil {
			return nil, err
		}
		r.SpeedBefore = time.Duration(before)
		r.SpeedAfter = time.Duration(after)
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rounds, nil
}

// LetterAggregates sums per-letter outcomes for one game, or all games when
// gameID is 0.
func (s *Store) LetterAggregates(ctx context.Context, gameID int64) ([]model.LetterAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT letter, COUNT(*) AS shown, SUM(placed) AS placed, SUM(recalled) AS recalled
		 FROM round_letters
		 WHERE (? = 0 OR game_id = ?)
		 GROUP BY letter
		 ORDER BY letter ASC`, gameID, gameID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.LetterAggregate
	for rows.Next() {
		var agg model.LetterAggregate
		if err := rows.Scan(&agg.Letter, &agg.Shown, &agg.Placed, &agg.Recalled); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
