package comment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories"
	"github.com/abdurwebdev/rerosewithmeee/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	sq "github.com/Masterminds/squirrel"
)

const table = "comments"

var columns = []string{"id::text", "content", "post_id::text", "author_id::text", "created_at", "updated_at"}

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("CommentRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	now := time.Now().UTC()
	query, args, err := repositories.SqBuilder.
		Insert(table).
		Columns("id", "content", "post_id", "author_id", "created_at", "updated_at").
		Values(uuid.NewString(), comment.Content, comment.PostID, comment.AuthorID, now, now).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	return scanComment(p.pg.QueryRow(ctx, query, args...))
}

func (p *Pgx) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query, args, err := repositories.SqBuilder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	c, err := scanComment(p.pg.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (p *Pgx) GetByIDs(ctx context.Context, ids []string) ([]*domain.Comment, error) {
	if len(ids) == 0 {
		return []*domain.Comment{}, nil
	}

	query, args, err := repositories.SqBuilder.
		Select(columns...).
		From(table).
		Where(sq.Expr("id::text = ANY(?)", ids)).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*domain.Comment, len(ids))
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*domain.Comment, 0, len(byID))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (p *Pgx) UpdateContent(ctx context.Context, id, content string) (*domain.Comment, error) {
	query, args, err := repositories.SqBuilder.
		Update(table).
		Set("content", content).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	c, err := scanComment(p.pg.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (p *Pgx) Delete(ctx context.Context, id string) error {
	query, args, err := repositories.SqBuilder.
		Delete(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return notFound(err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Pgx) ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	query, args, err := repositories.SqBuilder.
		Select("id::text").
		From(table).
		Where(sq.Expr("id::text = ANY(?)", ids)).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}
	return existing, rows.Err()
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(&c.ID, &c.Content, &c.PostID, &c.AuthorID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && repositories.IsInvalidID(pgErr.Code) {
		return ErrNotFound
	}
	return err
}
