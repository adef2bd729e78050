package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/server/models"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CRUD(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	s := NewUserService(rm, testHasher(), testConfig())
	ctx := context.Background()

	u, err := s.Create(ctx, " Jane ", "Jane@X.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Jane", u.Name)
	assert.Equal(t, "jane@x.com", u.Email)
	assert.NoError(t, testHasher().Verify(u.PasswordHash, "pw"))

	_, err = s.Create(ctx, "Jane", "JANE@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	age := 31
	require.NoError(t, s.Update(ctx, u.ID, models.UserUpdate{Name: "Janet", Age: &age}))

	got, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Janet", got.Name)
	require.NotNil(t, got.Age)
	assert.Equal(t, 31, *got.Age)

	require.NoError(t, s.Delete(ctx, u.ID))

	_, err = s.Get(ctx, u.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, s.Delete(ctx, u.ID), common.ErrorNotFound)
}

func TestUserService_Update_Validation(t *testing.T) {
	s := NewUserService(repomanager.NewMemoryRepositoryManager(), testHasher(), testConfig())

	neg := -1
	assert.ErrorIs(t, s.Update(context.Background(), "id", models.UserUpdate{Name: ""}), common.ErrorValidation)
	assert.ErrorIs(t, s.Update(context.Background(), "id", models.UserUpdate{Name: "x", Age: &neg}), common.ErrorValidation)
}

func TestUserService_Create_Validation(t *testing.T) {
	s := NewUserService(repomanager.NewMemoryRepositoryManager(), testHasher(), testConfig())

	_, err := s.Create(context.Background(), "Jane", "no-at", "pw")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestUserService_StoreErrors(t *testing.T) {
	s := NewUserService(brokenUsersManager{repomanager.NewMemoryRepositoryManager()}, testHasher(), testConfig())
	ctx := context.Background()

	_, err := s.Create(ctx, "Jane", "jane@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrorInternal)

	_, err = s.List(ctx)
	assert.ErrorIs(t, err, common.ErrorInternal)

	_, err = s.Get(ctx, "id")
	assert.ErrorIs(t, err, common.ErrorInternal)

	assert.ErrorIs(t, s.Delete(ctx, "id"), common.ErrorInternal)
}

func TestUserService_SetRole(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	s := NewUserService(rm, testHasher(), testConfig())
	ctx := context.Background()

	u, err := s.Create(ctx, "Jane", "jane@x.com", "pw")
	require.NoError(t, err)

	got, err := s.SetRole(ctx, " JANE@x.com ", models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())

	stored, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAdmin())

	_, err = s.SetRole(ctx, "nobody@x.com", models.RoleAdmin)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
