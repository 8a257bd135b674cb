package services

import (
	"context"
	"testing"

	"github.com/Kariqs/agronexus-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(newTestDB(t), newTestCredentials(t), false)

	user, err := users.Register(ctx, models.RegisterData{
		Username:  "wanjiku",
		Email:     "  Wanjiku@Example.com ",
		Password:  "password123",
		UserType:  models.RoleFarmer,
		FirstName: "Wanjiku",
		LastName:  "Kamau",
		FarmName:  "Green Acres",
		Location:  "Nakuru",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "wanjiku@example.com", user.Email)
	assert.Equal(t, "Wanjiku Kamau", user.FullName)
	assert.Equal(t, "Green Acres", user.FarmName)
	assert.NotEmpty(t, user.PasswordHash)

	buyer, err := users.Register(ctx, models.RegisterData{
		Username: "otieno",
		Email:    "otieno@example.com",
		Password: "password123",
		FarmName: "ignored",
		Location: "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleBuyer, buyer.UserType)
	assert.Empty(t, buyer.FarmName)
	assert.Empty(t, buyer.Location)
	assert.Equal(t, "otieno", buyer.FullName)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(newTestDB(t), newTestCredentials(t), false)
	registerUser(t, users, "amina", models.RoleBuyer)

	_, err := users.Register(ctx, models.RegisterData{Username: "amina2", Email: "AMINA@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = users.Register(ctx, models.RegisterData{Username: "amina", Email: "other@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(newTestDB(t), newTestCredentials(t), false)
	registered := registerUser(t, users, "baraka", models.RoleBuyer)

	user, err := users.Authenticate(ctx, "Baraka@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = users.Authenticate(ctx, "baraka@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = users.Authenticate(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateLegacyBackfill(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	creds := newTestCredentials(t)

	legacy := models.User{Username: "legacy", Email: "legacy@example.com", UserType: models.RoleBuyer}
	require.NoError(t, db.Create(&legacy).Error)

	_, err := NewUsers(db, creds, false).Authenticate(ctx, "legacy@example.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := NewUsers(db, creds, true).Authenticate(ctx, "legacy@example.com", "chosen-pass")
	require.NoError(t, err)
	assert.Equal(t, creds.Hash("chosen-pass"), user.PasswordHash)

	_, err = NewUsers(db, creds, true).Authenticate(ctx, "legacy@example.com", "different")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(newTestDB(t), newTestCredentials(t), false)
	alice := registerUser(t, users, "alice", models.RoleBuyer)
	bob := registerUser(t, users, "bobby", models.RoleBuyer)

	first := "Alice"
	updated, err := users.Update(ctx, alice, alice.ID, models.UserPatch{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FullName)

	_, err = users.Update(ctx, bob, alice.ID, models.UserPatch{FirstName: &first})
	assert.ErrorIs(t, err, ErrForbidden)

	taken := "bobby"
	_, err = users.Update(ctx, alice, alice.ID, models.UserPatch{Username: &taken})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	admin := models.User{ID: "admin-id", UserType: models.RoleAdmin}
	_, err = users.Update(ctx, admin, "missing-id", models.UserPatch{FirstName: &first})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = users.Get(ctx, "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUsersAndEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(newTestDB(t), newTestCredentials(t), false)

	created, err := users.EnsureAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = users.EnsureAdmin(ctx, "Root@Example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = users.EnsureAdmin(ctx, "other@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := users.Authenticate(ctx, "root@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	for _, name := range []string{"user1", "user2", "user3"} {
		registerUser(t, users, name, models.RoleBuyer)
	}

	list, pagination, err := users.List(ctx, NewPage(2, 3))
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(4), pagination.Total)
	assert.Equal(t, int64(2), pagination.Pages)
}
