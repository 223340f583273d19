package repository

import (
	"context"
	"database/sql"
	"fmt"

	"lumo-assistant-api/internal/model"
)

// MySQLAccountRepository implements AccountRepository against the
// shared MySQL user directory. The directory is optional; when MySQL
// is not configured the /me endpoint degrades to the bare actor ID.
type MySQLAccountRepository struct {
	db *sql.DB
}

// NewMySQLAccountRepository creates a new account repository.
func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{db: db}
}

// GetByUserID finds an account by its external user ID. Returns
// (nil, nil) when the user has no directory entry.
func (r *MySQLAccountRepository) GetByUserID(ctx context.Context, userID string) (*model.UserAccount, error) {
	query := `SELECT id, user_id, display_name, email, created_at
		FROM user_accounts WHERE user_id = ? LIMIT 1`

	var acc model.UserAccount
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&acc.ID, &acc.UserID, &acc.DisplayName, &acc.Email, &acc.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acc, nil
}

var _ AccountRepository = (*MySQLAccountRepository)(nil)
