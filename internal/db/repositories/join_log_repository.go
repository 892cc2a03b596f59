// join_log_repository.go implements JoinLogRepository, the persistence layer
// for the append-only room join audit log. There is deliberately no update or
// delete method: rows only disappear when the owning user is deleted and the
// foreign key cascades.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/freqradio/freqradio/internal/db/models"
)

// JoinLogRepository handles room join log database operations
type JoinLogRepository struct {
	db *sqlx.DB
}

// NewJoinLogRepository creates a new JoinLogRepository
func NewJoinLogRepository(db *sqlx.DB) *JoinLogRepository {
	return &JoinLogRepository{db: db}
}

// Create appends one join-log row. The database assigns the ID and the
// joined-at timestamp (server clock); both are written back into entry.
func (r *JoinLogRepository) Create(ctx context.Context, entry *models.RoomJoinLog) error {
	query := `
		INSERT INTO room_join_logs (user_id, frequency)
		VALUES ($1, $2)
		RETURNING id, joined_at
	`

	err := r.db.QueryRowxContext(ctx, query, entry.UserID, entry.Frequency).
		Scan(&entry.ID, &entry.JoinedAt)
	if err != nil {
		return fmt.Errorf("failed to create room join log: %w", err)
	}

	return nil
}

// List retrieves one page of join-log rows joined with the owning user's
// username, ordered newest first with the row ID as a stable tie-break, plus
// the total row count for pagination. Count and page are read in one
// read-only transaction so the envelope stays consistent while other
// requests append rows.
func (r *JoinLogRepository) List(ctx context.Context, limit, offset int) ([]*models.RoomJoinLogWithUser, int, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin room join log read: %w", err)
	}
	defer tx.Rollback()

	var total int
	countQuery := `SELECT COUNT(*) FROM room_join_logs`
	if err := tx.QueryRowxContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count room join logs: %w", err)
	}

	query := `
		SELECT l.id, l.user_id, l.frequency, l.joined_at, u.username
		FROM room_join_logs l
		JOIN users u ON u.id = l.user_id
		ORDER BY l.joined_at DESC, l.id DESC
		LIMIT $1 OFFSET $2
	`

	entries := make([]*models.RoomJoinLogWithUser, 0)
	if err := tx.SelectContext(ctx, &entries, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list room join logs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to finish room join log read: %w", err)
	}

	return entries, total, nil
}

// CountForUser returns the number of join-log rows owned by one user.
func (r *JoinLogRepository) CountForUser(ctx context.Context, userID int64) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM room_join_logs WHERE user_id = $1`
	if err := r.db.QueryRowxContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count room join logs for user: %w", err)
	}
	return total, nil
}
