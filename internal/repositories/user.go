package repositories

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-user-directory/internal/logger"
	"github.com/sbilibin2017/gw-user-directory/internal/models"
)

const userColumns = "id, name, age, email, address, created_at, updated_at"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// likeEscaper escapes LIKE metacharacters so a search term matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchFilter matches users whose name, email or address contains search,
// ignoring case. An empty search matches every user and yields nil.
func searchFilter(search string) sq.Sqlizer {
	if search == "" {
		return nil
	}
	pattern := "%" + likeEscaper.Replace(search) + "%"
	return sq.Or{
		sq.ILike{"name": pattern},
		sq.ILike{"email": pattern},
		sq.ILike{"address": pattern},
	}
}

func logQuery(query string, args []any, result any, err error) {
	// Log with query in single line
	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", result,
		"error", err,
	)
}

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// List returns at most limit users matching search, skipping offset rows.
// No ordering is applied, so rows come back in the store's default order.
func (r *UserReadRepository) List(ctx context.Context, search string, limit, offset int) ([]models.UserDB, error) {
	qb := psql.Select(userColumns).
		From("users").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	if filter := searchFilter(search); filter != nil {
		qb = qb.Where(filter)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, err
	}

	users := []models.UserDB{}
	err = r.db.SelectContext(ctx, &users, query, args...)
	logQuery(query, args, len(users), err)
	if err != nil {
		return nil, mapError(err)
	}

	return users, nil
}

// Count returns the number of users matching search.
func (r *UserReadRepository) Count(ctx context.Context, search string) (int, error) {
	qb := psql.Select("COUNT(*)").From("users")
	if filter := searchFilter(search); filter != nil {
		qb = qb.Where(filter)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return 0, err
	}

	var total int
	err = r.db.GetContext(ctx, &total, query, args...)
	logQuery(query, args, total, err)
	if err != nil {
		return 0, mapError(err)
	}

	return total, nil
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Create inserts a user and returns the stored row.
// Returns ErrDuplicateKey when the email is already taken.
func (r *UserWriteRepository) Create(ctx context.Context, user models.ValidatedUser) (*models.UserDB, error) {
	query, args, err := psql.Insert("users").
		Columns("name", "age", "email", "address").
		Values(user.Name, user.Age, user.Email, user.Address).
		Suffix("RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return nil, err
	}

	var created models.UserDB
	err = r.db.GetContext(ctx, &created, query, args...)
	logQuery(query, args, created.UserID, err)
	if err != nil {
		return nil, mapError(err)
	}

	return &created, nil
}

// Update replaces every user field of the row with the given id.
// Returns ErrNotFound when no such row exists.
func (r *UserWriteRepository) Update(ctx context.Context, id uuid.UUID, user models.ValidatedUser) (*models.UserDB, error) {
	query, args, err := psql.Update("users").
		SetMap(map[string]any{
			"name":    user.Name,
			"age":     user.Age,
			"email":   user.Email,
			"address": user.Address,
		}).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id.String()}).
		Suffix("RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return nil, err
	}

	var updated models.UserDB
	err = r.db.GetContext(ctx, &updated, query, args...)
	logQuery(query, args, updated.UserID, err)
	if err != nil {
		return nil, mapError(err)
	}

	return &updated, nil
}

// Delete removes the user with the given id.
// Returns ErrNotFound when no such row exists.
func (r *UserWriteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete("users").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, args, rowsAffected, err)

	if err != nil {
		return mapError(err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
