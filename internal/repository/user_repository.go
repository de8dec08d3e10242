package repository

import (
	"context"
	"errors"
	"fmt"

	"chatmart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// Upsert inserts or refreshes a user. The stored role wins over the incoming one.
func (r *userRepository) Upsert(ctx context.Context, user *model.User) (string, error) {
	query := `
		INSERT INTO users (line_user_id, display_name, picture_url, status_message, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (line_user_id) DO UPDATE SET
			display_name   = EXCLUDED.display_name,
			picture_url    = EXCLUDED.picture_url,
			status_message = EXCLUDED.status_message,
			role           = users.role
		RETURNING role
	`

	role := user.Role
	if role == "" {
		role = model.RoleUser
	}

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.DisplayName,
		user.PictureURL,
		user.StatusMessage,
		role,
	).Scan(&user.Role)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to upsert user")
		return "", fmt.Errorf("failed to upsert user: %w", err)
	}

	return user.Role, nil
}

// GetByID retrieves a user by identity-provider ID.
func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `
		SELECT line_user_id, display_name, picture_url, status_message, role, address, phone, created_at
		FROM users
		WHERE line_user_id = $1
	`

	var u model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.DisplayName,
		&u.PictureURL,
		&u.StatusMessage,
		&u.Role,
		&u.Address,
		&u.Phone,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		r.logger.Error().Err(err).Str("user_id", id).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &u, nil
}

// List returns the ID and display name of every user.
func (r *userRepository) List(ctx context.Context) ([]model.UserSummary, error) {
	rows, err := r.pool.Query(ctx, `SELECT line_user_id, display_name FROM users ORDER BY created_at, line_user_id`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query users")
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.UserSummary, error) {
		var u model.UserSummary
		err := row.Scan(&u.ID, &u.DisplayName)
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}

	return users, nil
}

// ListIDs returns every user ID, used as the promotion audience.
func (r *userRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT line_user_id FROM users ORDER BY line_user_id`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query user ids")
		return nil, fmt.Errorf("failed to query user ids: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan user ids: %w", err)
	}

	return ids, nil
}

// UpdateProfile sets address and phone for users matching the display name.
func (r *userRepository) UpdateProfile(ctx context.Context, req *model.UpdateProfileRequest) error {
	query := `
		UPDATE users
		SET address = $1, phone = $2
		WHERE display_name = $3
	`

	tag, err := r.pool.Exec(ctx, query, req.Address, req.Phone, req.DisplayName)
	if err != nil {
		r.logger.Error().Err(err).Str("display_name", req.DisplayName).Msg("failed to update profile")
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	return nil
}
