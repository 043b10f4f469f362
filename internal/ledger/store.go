package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"walrusup/internal/fileutil"
	"walrusup/internal/logging"
	"walrusup/internal/walrus"
)

// Entry is one recorded upload.
type Entry struct {
	ID          int64     `json:"id" yaml:"id"`
	RunID       string    `json:"run_id" yaml:"run_id"`
	Tier        string    `json:"tier" yaml:"tier"`
	FilePath    string    `json:"file_path" yaml:"file_path"`
	BlobID      string    `json:"blob_id" yaml:"blob_id"`
	EndEpoch    int64     `json:"end_epoch" yaml:"end_epoch"`
	Variant     string    `json:"variant" yaml:"variant"`
	ObjectID    string    `json:"object_id,omitempty" yaml:"object_id,omitempty"`
	SizeBytes   int64     `json:"size_bytes" yaml:"size_bytes"`
	ContentType string    `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at" yaml:"uploaded_at"`
}

// ListOptions filters List results.
type ListOptions struct {
	RunID string
	Limit int
}

// Store persists upload entries in sqlite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates or opens the ledger database at path and applies migrations.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("ledger path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts entry. A zero UploadedAt is replaced with the current time.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if strings.TrimSpace(entry.BlobID) == "" {
		return entry, errors.New("ledger: blob id required")
	}
	if entry.UploadedAt.IsZero() {
		entry.UploadedAt = s.now()
	}
	entry.UploadedAt = entry.UploadedAt.UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO uploads (
            run_id, tier, file_path, blob_id, end_epoch, variant, object_id,
            size_bytes, content_type, uploaded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.Tier,
		entry.FilePath,
		entry.BlobID,
		entry.EndEpoch,
		entry.Variant,
		nullableString(entry.ObjectID),
		entry.SizeBytes,
		nullableString(entry.ContentType),
		entry.UploadedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return entry, fmt.Errorf("insert upload: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return entry, fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// RecordUpload records a successful store call. The run id is taken from ctx.
// Size and content type are read from path; a file that vanished since the
// upload is still recorded without them.
func (s *Store) RecordUpload(ctx context.Context, tier, path string, result walrus.Result) error {
	runID, _ := logging.RunIDFromContext(ctx)
	size, contentType, _ := fileutil.Describe(path)
	_, err := s.Record(ctx, Entry{
		RunID:       runID,
		Tier:        tier,
		FilePath:    path,
		BlobID:      result.BlobID,
		EndEpoch:    result.EndEpoch,
		Variant:     string(result.Variant),
		ObjectID:    result.ObjectID,
		SizeBytes:   size,
		ContentType: contentType,
	})
	return err
}

// List returns entries newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	query := `SELECT id, run_id, tier, file_path, blob_id, end_epoch, variant, object_id,
        size_bytes, content_type, uploaded_at FROM uploads`
	args := []any{}
	if runID := strings.TrimSpace(opts.RunID); runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` ORDER BY id DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry       Entry
			objectID    sql.NullString
			contentType sql.NullString
			uploadedAt  string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.RunID,
			&entry.Tier,
			&entry.FilePath,
			&entry.BlobID,
			&entry.EndEpoch,
			&entry.Variant,
			&objectID,
			&entry.SizeBytes,
			&contentType,
			&uploadedAt,
		); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		entry.ObjectID = objectID.String
		entry.ContentType = contentType.String
		if ts, err := time.Parse(time.RFC3339Nano, uploadedAt); err == nil {
			entry.UploadedAt = ts
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uploads: %w", err)
	}
	return entries, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
