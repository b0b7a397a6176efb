package services

import (
	"context"
	"testing"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/models"
	"github.com/Rakhulsr/go-smartmart/app/repositories"
	"github.com/Rakhulsr/go-smartmart/app/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateAndUniqueness(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	u, err := svc.Users.Create(ctx, UserInput{Email: " Admin@Example.COM", Username: "admin", Password: "hunter22", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.NotEqual(t, "hunter22", u.Password)

	_, err = svc.Users.Create(ctx, UserInput{Email: "admin@example.com", Username: "other", Password: "hunter22"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = svc.Users.Create(ctx, UserInput{Email: "new@example.com", Username: "admin", Password: "hunter22"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	viewer, err := svc.Users.Create(ctx, UserInput{Email: "v@example.com", Username: "viewer", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, viewer.Role)

	_, err = svc.Users.Create(ctx, UserInput{Email: "x@example.com", Username: "xx1", Password: "hunter22", Role: "owner"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestUserListAndUpdate(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	for _, name := range []string{"carol", "alice", "bob"} {
		_, err := svc.Users.Create(ctx, UserInput{Email: name + "@example.com", Username: name, Password: "password1"})
		require.NoError(t, err)
	}

	page, err := svc.Users.List(ctx, repositories.UserFilter{}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "alice", page.Items[0].Username)

	role := models.RoleAdmin
	updated, err := svc.Users.Update(ctx, page.Items[0].ID, UserPatch{Role: &role, Email: strPtr("ALICE@corp.com")})
	require.NoError(t, err)
	assert.Equal(t, "alice@corp.com", updated.Email)

	admins, err := svc.Users.List(ctx, repositories.UserFilter{Role: models.RoleAdmin}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), admins.Total)

	_, err = svc.Users.List(ctx, repositories.UserFilter{Role: "root"}, pagination.Params{Limit: 10})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = svc.Users.Update(ctx, page.Items[1].ID, UserPatch{Username: strPtr("carol")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	require.NoError(t, svc.Users.Delete(ctx, page.Items[1].ID))
	assert.ErrorIs(t, svc.Users.Delete(ctx, page.Items[1].ID), apperrors.ErrNotFound)
}

func TestLogin(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	_, err := svc.Users.Create(ctx, UserInput{Email: "dana@example.com", Username: "dana", Password: "correct-horse", Role: models.RoleAdmin})
	require.NoError(t, err)

	byEmail, err := svc.Auth.Login(ctx, LoginInput{Email: "DANA@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, byEmail.Claims.Role)

	claims, err := svc.Auth.VerifyToken(byEmail.Token)
	require.NoError(t, err)
	assert.Equal(t, byEmail.User.ID, claims.UserID)

	_, err = svc.Auth.Login(ctx, LoginInput{Username: "dana", Password: "correct-horse"})
	require.NoError(t, err)

	cases := []struct {
		name  string
		input LoginInput
		want  error
	}{
		{"both identifiers", LoginInput{Email: "dana@example.com", Username: "dana", Password: "correct-horse"}, apperrors.ErrInvalidArgument},
		{"no identifier", LoginInput{Password: "correct-horse"}, apperrors.ErrInvalidArgument},
		{"wrong password", LoginInput{Username: "dana", Password: "battery-staple"}, apperrors.ErrUnauthorized},
		{"unknown user", LoginInput{Email: "nobody@example.com", Password: "correct-horse"}, apperrors.ErrUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Auth.Login(ctx, tc.input)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err = svc.Auth.VerifyToken("garbage")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
