package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/setlistr/internal/models"
	"github.com/desertthunder/setlistr/internal/shared"
)

// ErrNotFound is returned when a record does not exist or was deleted.
var ErrNotFound = errors.New("record not found")

const synthesisColumns = `id, sequence, playlist_id, playlist_name, artist_name, tour_name, venue, event_date, source_url,
	total_songs, resolved_count, added_count, status, error_message, created_at, deleted_at`

// SynthesisRepository implements models.Repository[*models.SynthesisRecord].
type SynthesisRepository struct {
	db *sql.DB
}

// NewSynthesisRepository creates a new SynthesisRepository with the given database connection
func NewSynthesisRepository(db *sql.DB) *SynthesisRepository {
	return &SynthesisRepository{db: db}
}

// Create inserts the record and its failed songs with a generated ID and sequence
func (r *SynthesisRepository) Create(record *models.SynthesisRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := NextSequence(tx, "syntheses")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	id := shared.GenerateID()

	setlist := record.Setlist()
	_, err = tx.Exec(`
		INSERT INTO syntheses (`+synthesisColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`,
		id,
		sequence,
		record.PlaylistID(),
		record.PlaylistName(),
		setlist.ArtistName,
		setlist.TourName,
		setlist.Venue,
		setlist.Date,
		setlist.SourceURL,
		record.TotalSongs(),
		record.ResolvedCount(),
		record.AddedCount(),
		string(record.Status()),
		record.ErrorMessage(),
		record.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert synthesis: %w", err)
	}

	for i, song := range record.Failed() {
		_, err := tx.Exec(`INSERT INTO failed_songs (synthesis_id, position, name, artist_name) VALUES (?, ?, ?, ?)`,
			id, i, song.Name, song.ArtistName)
		if err != nil {
			return fmt.Errorf("failed to insert failed song: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit synthesis: %w", err)
	}

	record.SetID(id)
	record.SetSequence(sequence)
	return nil
}

// Get retrieves a record by ID, excluding soft-deleted records
func (r *SynthesisRepository) Get(id string) (*models.SynthesisRecord, error) {
	row := r.db.QueryRow(`SELECT `+synthesisColumns+` FROM syntheses WHERE id = ? AND deleted_at IS NULL`, id)

	record, err := scanSynthesis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: synthesis %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadFailed(record); err != nil {
		return nil, err
	}
	return record, nil
}

// List returns up to limit records, newest first. A non-positive limit returns all records.
func (r *SynthesisRepository) List(limit int) ([]*models.SynthesisRecord, error) {
	query := `SELECT ` + synthesisColumns + ` FROM syntheses WHERE deleted_at IS NULL ORDER BY sequence DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query syntheses: %w", err)
	}
	defer rows.Close()

	records := []*models.SynthesisRecord{}
	for rows.Next() {
		record, err := scanSynthesis(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	for _, record := range records {
		if err := r.loadFailed(record); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// Delete soft-deletes a record by ID
func (r *SynthesisRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE syntheses SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete synthesis: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: synthesis %s", ErrNotFound, id)
	}
	return nil
}

func (r *SynthesisRepository) loadFailed(record *models.SynthesisRecord) error {
	rows, err := r.db.Query(`SELECT name, artist_name FROM failed_songs WHERE synthesis_id = ? ORDER BY position ASC`, record.ID())
	if err != nil {
		return fmt.Errorf("failed to query failed songs: %w", err)
	}
	defer rows.Close()

	songs := []models.Song{}
	for rows.Next() {
		var song models.Song
		if err := rows.Scan(&song.Name, &song.ArtistName); err != nil {
			return fmt.Errorf("failed to scan failed song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	record.SetFailed(songs)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanSynthesis scans a row from [sql.Row] or [sql.Rows] into a [models.SynthesisRecord]
func scanSynthesis(s scanner) (*models.SynthesisRecord, error) {
	var (
		id            string
		sequence      int
		playlistID    string
		playlistName  string
		setlist       models.SetlistSummary
		totalSongs    int
		resolvedCount int
		addedCount    int
		status        string
		errorMessage  string
		createdAt     time.Time
		deletedAt     sql.NullTime
	)

	err := s.Scan(&id, &sequence, &playlistID, &playlistName, &setlist.ArtistName, &setlist.TourName, &setlist.Venue,
		&setlist.Date, &setlist.SourceURL, &totalSongs, &resolvedCount, &addedCount, &status, &errorMessage,
		&createdAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan synthesis: %w", err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestoreSynthesisRecord(id, sequence, playlistID, playlistName, setlist, totalSongs, resolvedCount,
		addedCount, models.SynthesisStatus(status), errorMessage, createdAt, deleted), nil
}
