package post

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

const table = "posts"

var columns = []string{
	"id::text",
	"owner_id::text",
	"type",
	"title",
	"caption",
	"media_url",
	"media_asset_id",
	"thumbnail_url",
	"thumbnail_asset_id",
	"tags",
	"likes::text[]",
	"dislikes::text[]",
	"comment_ids::text[]",
	"views",
	"is_published",
	"created_at",
	"updated_at",
}

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("PostRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// Create inserts the post; reaction and comment arrays start empty
func (p *Pgx) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	id := post.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}

	query, args, err := repositories.SqBuilder.
		Insert(table).
		Columns("id", "owner_id", "type", "title", "caption", "media_url", "media_asset_id",
			"thumbnail_url", "thumbnail_asset_id", "tags", "is_published", "created_at", "updated_at").
		Values(id, post.OwnerID, string(post.Type), post.Title, post.Caption, post.MediaURL, post.MediaAssetID,
			post.ThumbnailURL, post.ThumbnailAssetID, tags, post.IsPublished, now, now).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	created, err := scanPost(p.pg.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && repositories.IsUniqueViolation(pgErr.Code) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func (p *Pgx) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	query, args, err := repositories.SqBuilder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	post, err := scanPost(p.pg.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return post, nil
}

func (p *Pgx) List(ctx context.Context) ([]*domain.Post, error) {
	return p.list(ctx, nil)
}

func (p *Pgx) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Post, error) {
	if _, err := uuid.Parse(ownerID); err != nil {
		return []*domain.Post{}, nil
	}
	return p.list(ctx, sq.Eq{"owner_id": ownerID})
}

func (p *Pgx) list(ctx context.Context, where sq.Sqlizer) ([]*domain.Post, error) {
	builder := repositories.SqBuilder.
		Select(columns...).
		From(table).
		OrderBy("created_at DESC", "id DESC")
	if where != nil {
		builder = builder.Where(where)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
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

// ToggleReaction runs as a single UPDATE so concurrent toggles on the same
// row serialise on the row lock and each sees the previous result.
func (p *Pgx) ToggleReaction(ctx context.Context, postID, userID string, kind domain.Reaction) (*domain.Post, bool, error) {
	query, args, err := toggleReactionQuery(postID, userID, kind, time.Now().UTC())
	if err != nil {
		return nil, false, repositories.ErrBadQuery
	}

	var added bool
	post, err := scanPost(p.pg.QueryRow(ctx, query, args...), &added)
	if err != nil {
		return nil, false, notFound(err)
	}
	return post, added, nil
}

// toggleReactionQuery removes userID from the opposite array and flips its
// membership in the target one. The trailing column reports whether the
// reaction is now held.
func toggleReactionQuery(postID, userID string, kind domain.Reaction, now time.Time) (string, []interface{}, error) {
	target, opposite := "likes", "dislikes"
	if kind == domain.ReactionDislike {
		target, opposite = "dislikes", "likes"
	}

	return repositories.SqBuilder.
		Update(table).
		Set(opposite, sq.Expr(fmt.Sprintf("array_remove(%s, ?::uuid)", opposite), userID)).
		Set(target, sq.Expr(fmt.Sprintf(
			"CASE WHEN ?::uuid = ANY(%[1]s) THEN array_remove(%[1]s, ?::uuid) ELSE array_append(%[1]s, ?::uuid) END", target),
			userID, userID, userID)).
		Set("updated_at", now).
		Where(sq.Eq{"id": postID}).
		Suffix(fmt.Sprintf("RETURNING %s, ?::uuid = ANY(%s)", strings.Join(columns, ", "), target), userID).
		ToSql()
}

func (p *Pgx) PushComment(ctx context.Context, postID, commentID string) error {
	return p.updateComments(ctx, postID, sq.Expr("array_append(comment_ids, ?::uuid)", commentID))
}

func (p *Pgx) PullComment(ctx context.Context, postID, commentID string) error {
	return p.updateComments(ctx, postID, sq.Expr("array_remove(comment_ids, ?::uuid)", commentID))
}

func (p *Pgx) updateComments(ctx context.Context, postID string, expr sq.Sqlizer) error {
	query, args, err := repositories.SqBuilder.
		Update(table).
		Set("comment_ids", expr).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": postID}).
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

func (p *Pgx) CommentRefs(ctx context.Context) (map[string][]string, error) {
	query, args, err := repositories.SqBuilder.
		Select("id::text", "comment_ids::text[]").
		From(table).
		Where("cardinality(comment_ids) > 0").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make(map[string][]string)
	for rows.Next() {
		var (
			id  string
			ids []string
		)
		if err := rows.Scan(&id, &ids); err != nil {
			return nil, err
		}
		refs[id] = ids
	}

	return refs, rows.Err()
}

func scanPost(row pgx.Row, extra ...any) (*domain.Post, error) {
	var (
		post     domain.Post
		postType string
	)
	dest := []any{
		&post.ID, &post.OwnerID, &postType, &post.Title, &post.Caption,
		&post.MediaURL, &post.MediaAssetID, &post.ThumbnailURL, &post.ThumbnailAssetID,
		&post.Tags, &post.Likes, &post.Dislikes, &post.Comments,
		&post.Views, &post.IsPublished, &post.CreatedAt, &post.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	post.Type = domain.PostType(postType)
	post.Normalize()
	return &post, nil
}

// notFound maps missing rows and malformed ids onto ErrNotFound.
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
