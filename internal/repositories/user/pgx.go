package user

import (
	"context"
	"errors"
	"fmt"
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

const table = "users"

var columns = []string{
	"id::text",
	"username",
	"email",
	"password_hash",
	"bio",
	"avatar",
	"saved_posts::text[]",
	"followers::text[]",
	"following::text[]",
	"created_at",
	"updated_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("UserRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	query, args, err := repositories.SqBuilder.
		Insert(table).
		Columns("id", "username", "email", "password_hash", "bio", "avatar", "created_at", "updated_at").
		Values(uuid.NewString(), user.Username, strings.ToLower(user.Email), user.PasswordHash, user.Bio, user.Avatar, now, now).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	created, err := scanUser(p.pg.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapErr(err)
	}
	return created, nil
}

func (p *Pgx) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return p.getOne(ctx, sq.Eq{"id": id})
}

func (p *Pgx) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return p.getOne(ctx, sq.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (p *Pgx) getOne(ctx context.Context, where sq.Sqlizer) (*domain.User, error) {
	query, args, err := repositories.SqBuilder.
		Select(columns...).
		From(table).
		Where(where).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	u, err := scanUser(p.pg.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (p *Pgx) GetSummaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error) {
	summaries := make(map[string]domain.UserSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	users, err := p.list(ctx, repositories.SqBuilder.
		Select(columns...).
		From(table).
		Where(sq.Expr("id::text = ANY(?)", ids)))
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		summaries[u.ID] = u.Summary()
	}
	return summaries, nil
}

func (p *Pgx) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	builder := repositories.SqBuilder.
		Update(table).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", "))
	if update.Username != nil {
		builder = builder.Set("username", *update.Username)
	}
	if update.Email != nil {
		builder = builder.Set("email", strings.ToLower(*update.Email))
	}
	if update.Bio != nil {
		builder = builder.Set("bio", *update.Bio)
	}
	if update.Avatar != nil {
		builder = builder.Set("avatar", *update.Avatar)
	}
	if update.PasswordHash != nil {
		builder = builder.Set("password_hash", *update.PasswordHash)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	u, err := scanUser(p.pg.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (p *Pgx) AddSavedPost(ctx context.Context, userID, postID string) (*domain.User, error) {
	return p.updateArray(ctx, p.pg, userID, "saved_posts", addExpr("saved_posts", postID))
}

func (p *Pgx) RemoveSavedPost(ctx context.Context, userID, postID string) (*domain.User, error) {
	return p.updateArray(ctx, p.pg, userID, "saved_posts", removeExpr("saved_posts", postID))
}

func (p *Pgx) RemoveSavedPostEverywhere(ctx context.Context, postID string) (int64, error) {
	query, args, err := repositories.SqBuilder.
		Update(table).
		Set("saved_posts", removeExpr("saved_posts", postID)).
		Where(sq.Expr("?::uuid = ANY(saved_posts)", postID)).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, mapErr(err)
	}
	return result.RowsAffected(), nil
}

// Follow updates both users in one transaction so the two sides never disagree.
func (p *Pgx) Follow(ctx context.Context, followerID, targetID string) error {
	return pgx.BeginFunc(ctx, p.pg, func(tx pgx.Tx) error {
		if _, err := p.updateArray(ctx, tx, targetID, "followers", addExpr("followers", followerID)); err != nil {
			return err
		}
		_, err := p.updateArray(ctx, tx, followerID, "following", addExpr("following", targetID))
		return err
	})
}

func (p *Pgx) Unfollow(ctx context.Context, followerID, targetID string) error {
	return pgx.BeginFunc(ctx, p.pg, func(tx pgx.Tx) error {
		if _, err := p.updateArray(ctx, tx, targetID, "followers", removeExpr("followers", followerID)); err != nil {
			return err
		}
		_, err := p.updateArray(ctx, tx, followerID, "following", removeExpr("following", targetID))
		return err
	})
}

func (p *Pgx) Search(ctx context.Context, query string, limit int) ([]*domain.User, error) {
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(query)) + "%"
	return p.list(ctx, repositories.SqBuilder.
		Select(columns...).
		From(table).
		Where(sq.Or{sq.ILike{"username": pattern}, sq.ILike{"email": pattern}}).
		OrderBy("username").
		Limit(uint64(limit)))
}

func (p *Pgx) Suggest(ctx context.Context, userID string, limit int) ([]*domain.User, error) {
	me, err := p.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	exclude := append([]string{me.ID}, me.Following...)
	return p.list(ctx, repositories.SqBuilder.
		Select(columns...).
		From(table).
		Where(sq.Expr("NOT (id::text = ANY(?))", exclude)).
		OrderBy("created_at DESC").
		Limit(uint64(limit)))
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (p *Pgx) updateArray(ctx context.Context, q querier, userID, column string, expr sq.Sqlizer) (*domain.User, error) {
	query, args, err := repositories.SqBuilder.
		Update(table).
		Set(column, expr).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": userID}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	u, err := scanUser(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (p *Pgx) list(ctx context.Context, builder sq.SelectBuilder) ([]*domain.User, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func addExpr(column, id string) sq.Sqlizer {
	return sq.Expr(fmt.Sprintf("CASE WHEN ?::uuid = ANY(%[1]s) THEN %[1]s ELSE array_append(%[1]s, ?::uuid) END", column), id, id)
}

func removeExpr(column, id string) sq.Sqlizer {
	return sq.Expr(fmt.Sprintf("array_remove(%s, ?::uuid)", column), id)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Bio, &u.Avatar,
		&u.SavedPosts, &u.Followers, &u.Following, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	normalize(&u)
	return &u, nil
}

func normalize(u *domain.User) {
	if u.SavedPosts == nil {
		u.SavedPosts = []string{}
	}
	if u.Followers == nil {
		u.Followers = []string{}
	}
	if u.Following == nil {
		u.Following = []string{}
	}
}

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case repositories.IsUniqueViolation(pgErr.Code):
			return ErrAlreadyExists
		case repositories.IsInvalidID(pgErr.Code):
			return ErrNotFound
		}
	}
	return err
}
