package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/hcw-deploy-api/internal/dto"
	"github.com/noah-isme/hcw-deploy-api/internal/models"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
)

type mockUserRepo struct {
	users       map[string]*models.User
	listErr     error
	deactivated []string
	lastFilter  models.UserFilter
}

func (m *mockUserRepo) List(_ context.Context, filter models.UserFilter) ([]models.User, int, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var users []models.User
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, len(users), nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = "u-new"
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Update(_ context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Deactivate(_ context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	return nil
}

func newUserFixture() (*UserService, *mockUserRepo) {
	repo := &mockUserRepo{users: map[string]*models.User{
		"u-1": {ID: "u-1", Email: "admin@example.org", FullName: "Admin", Role: models.RoleAdmin, Active: true},
	}}
	svc := NewUserService(repo, nil, nil)
	svc.hashCost = bcrypt.MinCost
	return svc, repo
}

func TestUserServiceCreate(t *testing.T) {
	svc, repo := newUserFixture()

	user, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Email:    "  Coordinator@Example.org ",
		FullName: "Thoko Phiri",
		Role:     models.RoleCoordinator,
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "coordinator@example.org", user.Email)
	assert.True(t, user.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users["u-new"].PasswordHash), []byte("s3cret-pass")))
}

func TestUserServiceCreateRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture()

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Email: "ADMIN@example.org", FullName: "Again", Role: models.RoleViewer, Password: "long-enough",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestUserServiceCreateValidatesRole(t *testing.T) {
	svc, _ := newUserFixture()

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Email: "x@example.org", FullName: "X", Role: "TEACHER", Password: "long-enough",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserServiceUpdate(t *testing.T) {
	svc, repo := newUserFixture()
	inactive := false
	password := "rotated-password"

	user, err := svc.Update(context.Background(), "u-1", dto.UpdateUserRequest{
		FullName: "Chief Admin", Role: models.RoleCoordinator, Active: &inactive, Password: &password,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCoordinator, user.Role)
	assert.False(t, user.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users["u-1"].PasswordHash), []byte(password)))

	_, err = svc.Update(context.Background(), "missing", dto.UpdateUserRequest{FullName: "X", Role: models.RoleViewer})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUserServiceDeactivate(t *testing.T) {
	svc, repo := newUserFixture()
	self := "u-1"

	err := svc.Deactivate(context.Background(), "u-1", &self)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Deactivate(context.Background(), "u-1", nil))
	assert.Equal(t, []string{"u-1"}, repo.deactivated)

	err = svc.Deactivate(context.Background(), "missing", nil)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUserServiceList(t *testing.T) {
	svc, repo := newUserFixture()

	users, pagination, err := svc.List(context.Background(), models.UserFilter{Paging: models.Paging{Page: 1, PageSize: 10}})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 10, repo.lastFilter.PageSize)

	repo.listErr = errors.New("boom")
	_, _, err = svc.List(context.Background(), models.UserFilter{})
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
