package notifications

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/secureshare/internal/common"
	"github.com/dmitrijs2005/secureshare/internal/dbx"
	"github.com/dmitrijs2005/secureshare/internal/server/models"
)

// PostgresRepository implements notification storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (session_id, kind, message, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, n.SessionID, n.Kind, n.Message, n.CreatedAt).Scan(&n.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	prune := `
		DELETE FROM notifications
		WHERE session_id = $1 AND id NOT IN (
			SELECT id FROM notifications
			WHERE session_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		);
	`
	if _, err := r.db.ExecContext(ctx, prune, n.SessionID, common.MaxNotificationsPerSession); err != nil {
		return fmt.Errorf("prune error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, session_id, kind, message, created_at, read
		FROM notifications
		WHERE session_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select notifications: %w", err)
	}
	defer rows.Close()

	var result []*models.Notification
	for rows.Next() {
		var item models.Notification
		if err := rows.Scan(&item.ID, &item.SessionID, &item.Kind, &item.Message, &item.CreatedAt, &item.Read); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, sessionID string, id int64) error {
	query := `UPDATE notifications SET read = true WHERE session_id = $1 AND id = $2`
	if _, err := r.db.ExecContext(ctx, query, sessionID, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
