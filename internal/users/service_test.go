package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockwise/stockwise/internal/shared"
)

type memoryRepo struct {
	users  map[int64]*User
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: map[int64]*User{}}
}

func (m *memoryRepo) List(_ context.Context, _ ListFilters) ([]User, int, error) {
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, fmt.Errorf("user %d: %w", id, shared.ErrNotFound)
	}
	return *u, nil
}

func (m *memoryRepo) FindByLoginID(_ context.Context, loginID string) (User, error) {
	for _, u := range m.users {
		if u.LoginID == loginID {
			return *u, nil
		}
	}
	return User{}, fmt.Errorf("login %s: %w", loginID, shared.ErrNotFound)
}

func (m *memoryRepo) Create(_ context.Context, user User) (User, error) {
	for _, u := range m.users {
		if u.LoginID == user.LoginID || u.Email == user.Email {
			return User{}, fmt.Errorf("login id or email already exists: %w", shared.ErrDuplicate)
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	stored := user
	m.users[user.ID] = &stored
	return user, nil
}

func (m *memoryRepo) Update(_ context.Context, id int64, user User) error {
	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("user %d: %w", id, shared.ErrNotFound)
	}
	user.ID = id
	stored := user
	m.users[id] = &stored
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("user %d: %w", id, shared.ErrNotFound)
	}
	delete(m.users, id)
	return nil
}

func (m *memoryRepo) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	if u, ok := m.users[id]; ok {
		u.LastLogin = &at
	}
	return nil
}

func validCreate() CreateUserRequest {
	return CreateUserRequest{
		LoginID:  "wstaff01",
		Name:     "Sam Porter",
		Email:    "sam@warehouse.local",
		Password: "correct horse",
		Role:     "Warehouse Staff",
	}
}

func TestCreateHashesPassword(t *testing.T) {
	service := NewService(newMemoryRepo())

	created, err := service.Create(context.Background(), validCreate())
	require.NoError(t, err)
	require.True(t, created.IsActive)
	require.Equal(t, shared.RoleWarehouseStaff, created.Role)
	require.NotEqual(t, "correct horse", created.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("correct horse")))
}

func TestCreateRejectsBadLoginID(t *testing.T) {
	service := NewService(newMemoryRepo())

	for _, loginID := range []string{"abc", "thisloginistoolong", "has space1"} {
		req := validCreate()
		req.LoginID = loginID
		_, err := service.Create(context.Background(), req)
		require.ErrorIs(t, err, shared.ErrValidation, "login id %q", loginID)
	}
}

func TestCreateRejectsDuplicateLoginID(t *testing.T) {
	service := NewService(newMemoryRepo())

	_, err := service.Create(context.Background(), validCreate())
	require.NoError(t, err)

	dup := validCreate()
	dup.Email = "other@warehouse.local"
	_, err = service.Create(context.Background(), dup)
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestUpdateChangesRole(t *testing.T) {
	service := NewService(newMemoryRepo())

	created, err := service.Create(context.Background(), validCreate())
	require.NoError(t, err)

	role := "Inventory Manager"
	updated, err := service.Update(context.Background(), created.ID, UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	require.Equal(t, shared.RoleInventoryManager, updated.Role)
	require.Equal(t, created.PasswordHash, updated.PasswordHash, "password untouched")
}

func TestDeleteOwnAccountRejected(t *testing.T) {
	service := NewService(newMemoryRepo())

	created, err := service.Create(context.Background(), validCreate())
	require.NoError(t, err)

	self := &shared.Actor{UserID: created.ID, Role: shared.RoleAdmin}
	err = service.Delete(context.Background(), self, created.ID)
	require.ErrorIs(t, err, shared.ErrValidation)

	other := &shared.Actor{UserID: created.ID + 1, Role: shared.RoleAdmin}
	require.NoError(t, service.Delete(context.Background(), other, created.ID))
}
