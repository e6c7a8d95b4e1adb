package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ninerlabs/peermatch/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT,
		year TEXT,
		program TEXT,
		major TEXT,
		data TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_profiles_created_at ON profiles(created_at);

	CREATE TABLE IF NOT EXISTS swipe_feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		swiper_id TEXT NOT NULL,
		candidate_id TEXT NOT NULL,
		action TEXT NOT NULL,
		score REAL,
		breakdown TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_swipes_swiper_id ON swipe_feedback(swiper_id);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateProfile inserts a profile. A duplicate email fails with a ValidationError.
func (s *SQLiteStorage) CreateProfile(ctx context.Context, p *models.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, email, full_name, year, program, major, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Email, p.FullName, p.Year, p.Program, p.Major, string(data), p.CreatedAt, p.UpdatedAt,
	)
	return mapConstraintError(err)
}

// GetProfile returns a profile by ID.
func (s *SQLiteStorage) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	return s.scanProfile(s.db.QueryRowContext(ctx,
		`SELECT data, created_at, updated_at FROM profiles WHERE id = ?`, id), "profile", id)
}

// GetProfileByEmail returns a profile by email.
func (s *SQLiteStorage) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return s.scanProfile(s.db.QueryRowContext(ctx,
		`SELECT data, created_at, updated_at FROM profiles WHERE email = ?`, email), "profile", email)
}

func (s *SQLiteStorage) scanProfile(row *sql.Row, kind, key string) (*models.Profile, error) {
	var data string
	var createdAt, updatedAt time.Time

	err := row.Scan(&data, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError(kind, key)
	}
	if err != nil {
		return nil, err
	}

	var p models.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	return &p, nil
}

// UpsertProfile inserts a profile or replaces the existing row with the same ID.
// The original creation time is preserved on replace.
func (s *SQLiteStorage) UpsertProfile(ctx context.Context, p *models.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, email, full_name, year, program, major, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			full_name = excluded.full_name,
			year = excluded.year,
			program = excluded.program,
			major = excluded.major,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		p.ID, p.Email, p.FullName, p.Year, p.Program, p.Major, string(data), p.CreatedAt, p.UpdatedAt,
	)
	return mapConstraintError(err)
}

// DeleteProfile removes a profile by ID.
func (s *SQLiteStorage) DeleteProfile(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return models.NewNotFoundError("profile", id)
	}
	return nil
}

// ListProfiles returns profiles ordered by ID with offset and limit.
// A limit below zero returns all remaining profiles.
func (s *SQLiteStorage) ListProfiles(ctx context.Context, offset, limit int) ([]*models.Profile, error) {
	if limit < 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT data, created_at, updated_at FROM profiles ORDER BY id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		var data string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&data, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		var p models.Profile
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
		}
		p.CreatedAt = createdAt
		p.UpdatedAt = updatedAt
		profiles = append(profiles, &p)
	}
	return profiles, rows.Err()
}

// CountProfiles returns the total number of profiles.
func (s *SQLiteStorage) CountProfiles(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	return count, err
}

// CreateSwipe records one swipe decision. The generated row ID is written
// back to s.ID.
func (s *SQLiteStorage) CreateSwipe(ctx context.Context, swipe *models.SwipeFeedback) error {
	if !models.ValidAction(swipe.Action) {
		return models.NewValidationError(fmt.Sprintf("invalid swipe action %q", swipe.Action))
	}
	if swipe.SwiperID == "" || swipe.CandidateID == "" {
		return models.NewValidationError("swiper_id and candidate_id are required")
	}

	breakdown, err := json.Marshal(swipe.Components)
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}
	swipe.CreatedAt = time.Now()

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO swipe_feedback (swiper_id, candidate_id, action, score, breakdown, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		swipe.SwiperID, swipe.CandidateID, swipe.Action, swipe.Score, string(breakdown), swipe.CreatedAt,
	)
	if err != nil {
		return err
	}
	swipe.ID, _ = result.LastInsertId()
	return nil
}

// ListSwipedIDs returns the set of candidate IDs the swiper has already acted on.
func (s *SQLiteStorage) ListSwipedIDs(ctx context.Context, swiperID string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT candidate_id FROM swipe_feedback WHERE swiper_id = ?`, swiperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// CountSwipes returns the total number of recorded swipes.
func (s *SQLiteStorage) CountSwipes(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM swipe_feedback`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// mapConstraintError turns a unique-email violation into a ValidationError.
func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed: profiles.email") {
		return models.NewValidationError("email already in use")
	}
	return err
}
