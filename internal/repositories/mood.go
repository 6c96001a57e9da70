package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/thornwyck/focusfm/internal/models"
	"github.com/thornwyck/focusfm/internal/shared"
)

// MoodRepository implements [models.Repository] for [models.Mood] persistence.
type MoodRepository struct {
	db *sql.DB
}

// NewMoodRepository creates a new [MoodRepository] with the given database connection
func NewMoodRepository(db *sql.DB) *MoodRepository {
	return &MoodRepository{db: db}
}

// Create inserts a new mood into the database
func (r *MoodRepository) Create(mood *models.Mood) error {
	if err := mood.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `INSERT INTO moods (name, description, created_at) VALUES (?, ?, ?)`

	result, err := r.db.Exec(query, mood.Name(), mood.Description(), mood.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert mood: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get mood id: %w", err)
	}
	mood.SetID(id)

	return nil
}

// Get retrieves a mood by ID
func (r *MoodRepository) Get(id int64) (*models.Mood, error) {
	query := `SELECT id, name, description, created_at FROM moods WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id), fmt.Sprintf("%d", id))
}

// GetByName retrieves a mood by its exact, case-sensitive name
func (r *MoodRepository) GetByName(name string) (*models.Mood, error) {
	query := `SELECT id, name, description, created_at FROM moods WHERE name = ?`
	return r.scanOne(r.db.QueryRow(query, name), name)
}

// GetOrCreate returns the mood with the given name, inserting it first when
// absent. The insert tolerates a concurrent winner: ON CONFLICT DO NOTHING
// followed by a re-read means both racers get the same row.
func (r *MoodRepository) GetOrCreate(name, description string) (*models.Mood, error) {
	query := `
		INSERT INTO moods (name, description, created_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`

	if _, err := r.db.Exec(query, name, description, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to insert mood: %w", err)
	}

	return r.GetByName(name)
}

// List retrieves all moods in insertion order
func (r *MoodRepository) List(criteria map[string]any) ([]*models.Mood, error) {
	query := `SELECT id, name, description, created_at FROM moods`
	args := []any{}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " WHERE name = ?"
		args = append(args, name)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query moods: %w", err)
	}
	defer rows.Close()

	var moods []*models.Mood
	for rows.Next() {
		mood, err := scanMood(rows)
		if err != nil {
			return nil, err
		}
		moods = append(moods, mood)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return moods, nil
}

// Count returns the number of moods
func (r *MoodRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM moods`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count moods: %w", err)
	}
	return count, nil
}

func (r *MoodRepository) scanOne(row *sql.Row, key string) (*models.Mood, error) {
	mood, err := scanMood(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrMoodNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query mood: %w", err)
	}
	return mood, nil
}

func scanMood(s scanner) (*models.Mood, error) {
	var (
		id          int64
		name        string
		description sql.NullString
		createdAt   time.Time
	)

	if err := s.Scan(&id, &name, &description, &createdAt); err != nil {
		return nil, err
	}

	mood := models.NewMood(name, description.String)
	mood.SetID(id)
	mood.SetCreatedAt(createdAt)

	return mood, nil
}
