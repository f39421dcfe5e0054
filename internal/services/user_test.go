package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sbilibin2017/gw-user-directory/internal/models"
	"github.com/sbilibin2017/gw-user-directory/internal/repositories"
	"github.com/sbilibin2017/gw-user-directory/internal/services"
	"github.com/sbilibin2017/gw-user-directory/internal/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func validCandidate(email string) models.UserCandidate {
	return models.UserCandidate{
		Name:  strPtr("John Doe"),
		Age:   floatPtr(30),
		Email: strPtr(email),
	}
}

func TestUserService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := []models.UserDB{
		{UserID: uuid.New(), Name: "Dave"},
		{UserID: uuid.New(), Name: "Eve"},
		{UserID: uuid.New(), Name: "Frank"},
	}

	tests := []struct {
		name      string
		params    models.ListParams
		users     []models.UserDB
		total     int
		listErr   error
		countErr  error
		wantPages int
		wantErr   bool
	}{
		{
			name:      "second page",
			params:    models.ListParams{Page: 2, Limit: 3},
			users:     users,
			total:     7,
			wantPages: 3,
		},
		{
			name:      "defaults with search",
			params:    models.ParseListParams("", "", "john"),
			users:     users[:1],
			total:     1,
			wantPages: 1,
		},
		{
			name:      "empty result",
			params:    models.ListParams{Page: 4, Limit: 5},
			users:     []models.UserDB{},
			total:     2,
			wantPages: 1,
		},
		{
			name:    "list error",
			params:  models.ListParams{Page: 1, Limit: 5},
			listErr: errors.New("db down"),
			wantErr: true,
		},
		{
			name:     "count error",
			params:   models.ListParams{Page: 1, Limit: 5},
			users:    users,
			countErr: errors.New("db down"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := services.NewMockUserReader(ctrl)
			svc := services.NewUserService(reader, services.NewMockUserWriter(ctrl), services.NewMockUserValidator(ctrl), nil)

			reader.EXPECT().
				List(gomock.Any(), tt.params.Search, tt.params.Limit, tt.params.Skip()).
				Return(tt.users, tt.listErr)
			if tt.listErr == nil {
				reader.EXPECT().
					Count(gomock.Any(), tt.params.Search).
					Return(tt.total, tt.countErr)
			}

			page, err := svc.List(context.Background(), tt.params)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, page)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.params.Page, page.Page)
			assert.Equal(t, tt.params.Limit, page.Limit)
			assert.Equal(t, tt.total, page.Total)
			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Equal(t, tt.users, page.Data)
			assert.LessOrEqual(t, len(page.Data), page.Limit)
		})
	}
}

func TestUserService_List_Cache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	params := models.ListParams{Page: 1, Limit: 5}
	cachedPage := models.NewUserPage(params, 1, []models.UserDB{{UserID: uuid.New(), Name: "John Doe"}})

	t.Run("hit skips the store", func(t *testing.T) {
		reader := services.NewMockUserReader(ctrl)
		cache := services.NewMockUserPageCache(ctrl)
		svc := services.NewUserService(reader, services.NewMockUserWriter(ctrl), services.NewMockUserValidator(ctrl), cache)

		cache.EXPECT().Generation(gomock.Any()).Return(int64(4), nil)
		cache.EXPECT().Get(gomock.Any(), int64(4), params).Return(cachedPage, nil)

		page, err := svc.List(context.Background(), params)
		require.NoError(t, err)
		assert.Same(t, cachedPage, page)
	})

	t.Run("miss loads and stores under the same generation", func(t *testing.T) {
		reader := services.NewMockUserReader(ctrl)
		cache := services.NewMockUserPageCache(ctrl)
		svc := services.NewUserService(reader, services.NewMockUserWriter(ctrl), services.NewMockUserValidator(ctrl), cache)

		cache.EXPECT().Generation(gomock.Any()).Return(int64(2), nil)
		cache.EXPECT().Get(gomock.Any(), int64(2), params).Return(nil, nil)
		reader.EXPECT().List(gomock.Any(), "", 5, 0).Return(cachedPage.Data, nil)
		reader.EXPECT().Count(gomock.Any(), "").Return(1, nil)
		cache.EXPECT().Set(gomock.Any(), int64(2), params, gomock.Any()).Return(nil)

		page, err := svc.List(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
	})

	t.Run("cache failure falls back to the store", func(t *testing.T) {
		reader := services.NewMockUserReader(ctrl)
		cache := services.NewMockUserPageCache(ctrl)
		svc := services.NewUserService(reader, services.NewMockUserWriter(ctrl), services.NewMockUserValidator(ctrl), cache)

		cache.EXPECT().Generation(gomock.Any()).Return(int64(0), errors.New("redis down"))
		reader.EXPECT().List(gomock.Any(), "", 5, 0).Return(cachedPage.Data, nil)
		reader.EXPECT().Count(gomock.Any(), "").Return(1, nil)

		page, err := svc.List(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, 1, page.TotalPages)
	})
}

func TestUserService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	validated := &models.ValidatedUser{Name: "John Doe", Age: 30, Email: "john@example.com"}
	created := &models.UserDB{UserID: uuid.New(), Name: "John Doe", Age: 30, Email: "john@example.com"}
	validationErr := &validators.ValidationError{Violations: []validators.Violation{
		{Field: "name", Kind: validators.FieldRequired, Message: "name is required"},
	}}

	tests := []struct {
		name        string
		validateErr error
		writerErr   error
		wantErr     error
	}{
		{
			name: "success",
		},
		{
			name:        "invalid record",
			validateErr: validationErr,
			wantErr:     validationErr,
		},
		{
			name:      "duplicate email",
			writerErr: errors.Join(repositories.ErrDuplicateKey, &pgconn.PgError{Code: "23505"}),
			wantErr:   services.ErrDuplicateEmail,
		},
		{
			name:      "store error",
			writerErr: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := services.NewMockUserWriter(ctrl)
			validator := services.NewMockUserValidator(ctrl)
			cache := services.NewMockUserPageCache(ctrl)
			svc := services.NewUserService(services.NewMockUserReader(ctrl), writer, validator, cache)

			candidate := validCandidate("john@example.com")
			if tt.validateErr != nil {
				validator.EXPECT().Validate(candidate).Return(nil, tt.validateErr)
			} else {
				validator.EXPECT().Validate(candidate).Return(validated, nil)
				if tt.writerErr != nil {
					writer.EXPECT().Create(gomock.Any(), *validated).Return(nil, tt.writerErr)
				} else {
					writer.EXPECT().Create(gomock.Any(), *validated).Return(created, nil)
					cache.EXPECT().Invalidate(gomock.Any()).Return(nil)
				}
			}

			got, err := svc.Create(context.Background(), candidate)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			case tt.writerErr != nil:
				assert.ErrorIs(t, err, tt.writerErr)
				assert.NotErrorIs(t, err, services.ErrDuplicateEmail)
				assert.Nil(t, got)
			default:
				require.NoError(t, err)
				assert.Equal(t, created, got)
			}
		})
	}
}

func TestUserService_Create_DuplicateEmailIgnoresCase(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := services.NewMockUserWriter(ctrl)
	svc := services.NewUserService(services.NewMockUserReader(ctrl), writer, validators.NewUserValidator(), nil)

	normalized := models.ValidatedUser{Name: "John Doe", Age: 30, Email: "a@b.com"}
	gomock.InOrder(
		writer.EXPECT().Create(gomock.Any(), normalized).
			Return(&models.UserDB{UserID: uuid.New(), Email: "a@b.com"}, nil),
		writer.EXPECT().Create(gomock.Any(), normalized).
			Return(nil, repositories.ErrDuplicateKey),
	)

	_, err := svc.Create(context.Background(), validCandidate("A@B.com"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validCandidate("a@b.com"))
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
}

func TestUserService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	validated := &models.ValidatedUser{Name: "John Doe", Age: 30, Email: "john@example.com"}
	updated := &models.UserDB{UserID: id, Name: "John Doe", Age: 30, Email: "john@example.com"}

	tests := []struct {
		name      string
		writerErr error
		wantErr   error
	}{
		{name: "success"},
		{name: "not found", writerErr: repositories.ErrNotFound, wantErr: services.ErrUserNotFound},
		{name: "duplicate email", writerErr: repositories.ErrDuplicateKey, wantErr: services.ErrDuplicateEmail},
		{name: "store check violation", writerErr: repositories.ErrCheckViolation, wantErr: services.ErrInvalidRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := services.NewMockUserWriter(ctrl)
			validator := services.NewMockUserValidator(ctrl)
			svc := services.NewUserService(services.NewMockUserReader(ctrl), writer, validator, nil)

			candidate := validCandidate("john@example.com")
			validator.EXPECT().Validate(candidate).Return(validated, nil)
			if tt.writerErr != nil {
				writer.EXPECT().Update(gomock.Any(), id, *validated).Return(nil, tt.writerErr)
			} else {
				writer.EXPECT().Update(gomock.Any(), id, *validated).Return(updated, nil)
			}

			got, err := svc.Update(context.Background(), id, candidate)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, updated, got)
		})
	}

	t.Run("invalid record is not written", func(t *testing.T) {
		validator := services.NewMockUserValidator(ctrl)
		svc := services.NewUserService(services.NewMockUserReader(ctrl), services.NewMockUserWriter(ctrl), validator, nil)

		verr := &validators.ValidationError{Violations: []validators.Violation{
			{Field: "age", Kind: validators.FieldInvalid, Message: "age must be a non-negative integer"},
		}}
		validator.EXPECT().Validate(gomock.Any()).Return(nil, verr)

		_, err := svc.Update(context.Background(), id, models.UserCandidate{})
		assert.ErrorIs(t, err, verr)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	t.Run("invalidation failure keeps the write", func(t *testing.T) {
		writer := services.NewMockUserWriter(ctrl)
		cache := services.NewMockUserPageCache(ctrl)
		svc := services.NewUserService(services.NewMockUserReader(ctrl), writer, services.NewMockUserValidator(ctrl), cache)

		writer.EXPECT().Delete(gomock.Any(), id).Return(nil)
		cache.EXPECT().Invalidate(gomock.Any()).Return(errors.New("redis down"))

		assert.NoError(t, svc.Delete(context.Background(), id))
	})

	t.Run("not found", func(t *testing.T) {
		writer := services.NewMockUserWriter(ctrl)
		svc := services.NewUserService(services.NewMockUserReader(ctrl), writer, services.NewMockUserValidator(ctrl), nil)

		writer.EXPECT().Delete(gomock.Any(), id).Return(repositories.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(context.Background(), id), services.ErrUserNotFound)
	})

	t.Run("store error", func(t *testing.T) {
		writer := services.NewMockUserWriter(ctrl)
		svc := services.NewUserService(services.NewMockUserReader(ctrl), writer, services.NewMockUserValidator(ctrl), nil)

		writer.EXPECT().Delete(gomock.Any(), id).Return(errors.New("connection reset"))

		err := svc.Delete(context.Background(), id)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, services.ErrUserNotFound)
	})
}
