package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/secureshare/internal/common"
	"github.com/dmitrijs2005/secureshare/internal/dbx"
	"github.com/dmitrijs2005/secureshare/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements the registry over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const pgUniqueViolation = "23505"

// Create inserts a new file record. A primary-key conflict on id maps to
// common.ErrDuplicateID so the caller can regenerate and retry.
func (r *PostgresRepository) Create(ctx context.Context, record *models.FileRecord) error {
	query := `
		INSERT INTO file_records (id, owner_session_id, original_name, content_digest, storage_key, stored_at, accessed)
		VALUES ($1, $2, $3, $4, $5, $6, false);
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.OwnerSessionID, record.OriginalName, record.ContentDigest, record.StorageKey, record.StoredAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return common.ErrDuplicateID
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Get returns the record with the given id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.FileRecord, error) {
	query := `
		SELECT id, owner_session_id, original_name, content_digest, storage_key, stored_at, accessed
		FROM file_records
		WHERE id = $1
	`
	record := &models.FileRecord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID, &record.OwnerSessionID, &record.OriginalName,
		&record.ContentDigest, &record.StorageKey, &record.StoredAt, &record.Accessed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return record, nil
}

// MarkAccessed flips the accessed flag false->true in a single UPDATE; the
// WHERE clause is the compare half of the compare-and-set. Zero affected
// rows means the record was already consumed (or never existed).
func (r *PostgresRepository) MarkAccessed(ctx context.Context, id string) error {
	query := `
		UPDATE file_records
		SET accessed = true, accessed_at = now()
		WHERE id = $1 AND NOT accessed;
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrAlreadyConsumed
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// ListByOwner returns all records for sessionID, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, sessionID string) ([]*models.FileRecord, error) {
	query := `
		SELECT id, owner_session_id, original_name, content_digest, storage_key, stored_at, accessed
		FROM file_records
		WHERE owner_session_id = $1
		ORDER BY stored_at DESC, id
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []*models.FileRecord
	for rows.Next() {
		var item models.FileRecord
		if err := rows.Scan(&item.ID, &item.OwnerSessionID, &item.OriginalName,
			&item.ContentDigest, &item.StorageKey, &item.StoredAt, &item.Accessed); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
