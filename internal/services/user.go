package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-user-directory/internal/logger"
	"github.com/sbilibin2017/gw-user-directory/internal/models"
	"github.com/sbilibin2017/gw-user-directory/internal/repositories"
)

//go:generate mockgen -source=user.go -destination=user_mock.go -package=services

// Error variables
var (
	ErrDuplicateEmail = errors.New("email already exists")
	ErrUserNotFound   = errors.New("user not found")
	ErrInvalidRecord  = errors.New("user record rejected by store")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	List(ctx context.Context, search string, limit, offset int) ([]models.UserDB, error)
	Count(ctx context.Context, search string) (int, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Create(ctx context.Context, user models.ValidatedUser) (*models.UserDB, error)
	Update(ctx context.Context, id uuid.UUID, user models.ValidatedUser) (*models.UserDB, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserValidator checks candidate users before they are persisted.
type UserValidator interface {
	Validate(candidate models.UserCandidate) (*models.ValidatedUser, error)
}

// UserPageCache stores list pages keyed by a generation counter.
type UserPageCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, generation int64, params models.ListParams) (*models.UserPage, error)
	Set(ctx context.Context, generation int64, params models.ListParams, page *models.UserPage) error
	Invalidate(ctx context.Context) error
}

// UserService handles listing and mutating users.
type UserService struct {
	reader    UserReader
	writer    UserWriter
	validator UserValidator
	cache     UserPageCache
}

// NewUserService creates a new UserService instance.
// cache may be nil, in which case every list goes to the store.
func NewUserService(reader UserReader, writer UserWriter, validator UserValidator, cache UserPageCache) *UserService {
	return &UserService{
		reader:    reader,
		writer:    writer,
		validator: validator,
		cache:     cache,
	}
}

// List returns one page of users matching params.Search along with pagination metadata.
func (svc *UserService) List(ctx context.Context, params models.ListParams) (*models.UserPage, error) {
	generation, useCache := svc.cachedGeneration(ctx)
	if useCache {
		page, err := svc.cache.Get(ctx, generation, params)
		if err != nil {
			logger.Log.Errorw("failed to read cached page", "err", err)
		}
		if page != nil {
			return page, nil
		}
	}

	users, err := svc.reader.List(ctx, params.Search, params.Limit, params.Skip())
	if err != nil {
		logger.Log.Errorw("failed to list users", "err", err)
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := svc.reader.Count(ctx, params.Search)
	if err != nil {
		logger.Log.Errorw("failed to count users", "err", err)
		return nil, fmt.Errorf("count users: %w", err)
	}

	page := models.NewUserPage(params, total, users)

	if useCache {
		if err := svc.cache.Set(ctx, generation, params, page); err != nil {
			logger.Log.Errorw("failed to cache page", "err", err)
		}
	}

	return page, nil
}

// Create validates the candidate and stores it as a new user.
func (svc *UserService) Create(ctx context.Context, candidate models.UserCandidate) (*models.UserDB, error) {
	user, err := svc.validator.Validate(candidate)
	if err != nil {
		logger.Log.Infow("user rejected", "err", err)
		return nil, err
	}

	created, err := svc.writer.Create(ctx, *user)
	if err != nil {
		return nil, svc.writeError("failed to create user", err)
	}

	svc.invalidate(ctx)
	return created, nil
}

// Update validates the candidate and replaces every field of the user with the given id.
func (svc *UserService) Update(ctx context.Context, id uuid.UUID, candidate models.UserCandidate) (*models.UserDB, error) {
	user, err := svc.validator.Validate(candidate)
	if err != nil {
		logger.Log.Infow("user rejected", "id", id, "err", err)
		return nil, err
	}

	updated, err := svc.writer.Update(ctx, id, *user)
	if err != nil {
		return nil, svc.writeError("failed to update user", err)
	}

	svc.invalidate(ctx)
	return updated, nil
}

// Delete removes the user with the given id.
func (svc *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := svc.writer.Delete(ctx, id); err != nil {
		return svc.writeError("failed to delete user", err)
	}

	svc.invalidate(ctx)
	return nil
}

func (svc *UserService) cachedGeneration(ctx context.Context) (int64, bool) {
	if svc.cache == nil {
		return 0, false
	}
	generation, err := svc.cache.Generation(ctx)
	if err != nil {
		logger.Log.Errorw("failed to read cache generation", "err", err)
		return 0, false
	}
	return generation, true
}

func (svc *UserService) invalidate(ctx context.Context) {
	if svc.cache == nil {
		return
	}
	if err := svc.cache.Invalidate(ctx); err != nil {
		logger.Log.Errorw("failed to invalidate page cache", "err", err)
	}
}

// writeError maps store errors to service errors.
func (svc *UserService) writeError(msg string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrDuplicateKey):
		logger.Log.Infow(msg, "err", err)
		return ErrDuplicateEmail
	case errors.Is(err, repositories.ErrNotFound):
		logger.Log.Infow(msg, "err", err)
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrCheckViolation):
		logger.Log.Infow(msg, "err", err)
		return ErrInvalidRecord
	default:
		logger.Log.Errorw(msg, "err", err)
		return fmt.Errorf("%s: %w", msg, err)
	}
}
