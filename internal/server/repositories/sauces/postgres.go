// Package sauces provides the PostgreSQL-backed sauce store. Voter lists are
// kept in TEXT[] columns next to their counters.
package sauces

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/piiquante/internal/common"
	"github.com/dmitrijs2005/piiquante/internal/dbx"
	"github.com/dmitrijs2005/piiquante/internal/server/models"
	"github.com/jackc/pgx/v5/pgtype"
)

const selectColumns = `id, user_id, name, manufacturer, description, main_pepper, image_ref, heat,
	likes, dislikes, users_liked, users_disliked, version, created_at, updated_at`

type PostgresRepository struct {
	db   dbx.DBTX
	tmap *pgtype.Map
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, tmap: pgtype.NewMap()}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) scan(row rowScanner) (*models.Sauce, error) {
	s := &models.Sauce{}
	err := row.Scan(
		&s.ID, &s.UserID, &s.Name, &s.Manufacturer, &s.Description, &s.MainPepper, &s.ImageRef, &s.Heat,
		&s.Likes, &s.Dislikes,
		r.tmap.SQLScanner(&s.UsersLiked), r.tmap.SQLScanner(&s.UsersDisliked),
		&s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if s.UsersLiked == nil {
		s.UsersLiked = []string{}
	}
	if s.UsersDisliked == nil {
		s.UsersDisliked = []string{}
	}
	return s, nil
}

// textArray encodes ids as a PostgreSQL array literal, bound as $n::text[].
func (r *PostgresRepository) textArray(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	buf, err := r.tmap.Encode(pgtype.TextArrayOID, pgtype.TextFormatCode, ids, nil)
	if err != nil {
		return "", fmt.Errorf("encode text[]: %w", err)
	}
	return string(buf), nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Sauce, error) {
	query := `SELECT ` + selectColumns + ` FROM sauces ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Sauce{}
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Sauce, error) {
	return r.get(ctx, `SELECT `+selectColumns+` FROM sauces WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Sauce, error) {
	return r.get(ctx, `SELECT `+selectColumns+` FROM sauces WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRepository) get(ctx context.Context, query, id string) (*models.Sauce, error) {
	s, err := r.scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Sauce) (*models.Sauce, error) {
	liked, err := r.textArray(s.UsersLiked)
	if err != nil {
		return nil, err
	}
	disliked, err := r.textArray(s.UsersDisliked)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO sauces (user_id, name, manufacturer, description, main_pepper, image_ref, heat,
			likes, dislikes, users_liked, users_disliked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::text[], $11::text[])
		RETURNING id, version, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		s.UserID, s.Name, s.Manufacturer, s.Description, s.MainPepper, s.ImageRef, s.Heat,
		s.Likes, s.Dislikes, liked, disliked,
	).Scan(&s.ID, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

// UpdateDetails writes the owner-editable fields and the image reference.
func (r *PostgresRepository) UpdateDetails(ctx context.Context, s *models.Sauce) error {
	query := `
		UPDATE sauces SET name = $1, manufacturer = $2, description = $3, main_pepper = $4,
			heat = $5, image_ref = $6, version = version + 1, updated_at = now()
		WHERE id = $7 AND version = $8
		RETURNING version, updated_at
	`
	return r.update(ctx, s, query,
		s.Name, s.Manufacturer, s.Description, s.MainPepper, s.Heat, s.ImageRef, s.ID, s.Version)
}

// UpdateVotes writes the counters and voter lists.
func (r *PostgresRepository) UpdateVotes(ctx context.Context, s *models.Sauce) error {
	liked, err := r.textArray(s.UsersLiked)
	if err != nil {
		return err
	}
	disliked, err := r.textArray(s.UsersDisliked)
	if err != nil {
		return err
	}

	query := `
		UPDATE sauces SET likes = $1, dislikes = $2, users_liked = $3::text[], users_disliked = $4::text[],
			version = version + 1, updated_at = now()
		WHERE id = $5 AND version = $6
		RETURNING version, updated_at
	`
	return r.update(ctx, s, query, s.Likes, s.Dislikes, liked, disliked, s.ID, s.Version)
}

func (r *PostgresRepository) update(ctx context.Context, s *models.Sauce, query string, args ...any) error {
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.Version, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrVersionConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sauces WHERE id = $1`, id)
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
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
