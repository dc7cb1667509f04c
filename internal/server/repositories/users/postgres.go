package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/expertprofile/internal/common"
	"github.com/dmitrijs2005/expertprofile/internal/dbx"
	"github.com/dmitrijs2005/expertprofile/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.UserInfo) error {
	query :=
		`INSERT INTO users (id, email, username, name)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.Username, user.Name)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.UserInfo, error) {
	query :=
		`SELECT id, email, username, name, wallet_address, version, created_at FROM users
		 WHERE id = $1`

	u := &models.UserInfo{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.Email, &u.Username, &u.Name, &u.WalletAddress, &u.Version, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.UserInfo, expectedVersion int64) (int64, error) {
	query :=
		`UPDATE users SET name = $2, wallet_address = $3, version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $4
		 RETURNING version`

	var version int64
	err := r.db.QueryRowContext(ctx, query, user.ID, user.Name, user.WalletAddress, expectedVersion).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrVersionConflict
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return version, nil
}
