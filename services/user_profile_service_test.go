package services

import (
	"context"
	"testing"

	"cove_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureProfile(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.profiles.EnsureProfile(ctx, ownerIdentity, "avery@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, ownerIdentity.ID, created.UserID)
	assert.Equal(t, ownerIdentity.DisplayName, created.DisplayName)
	assert.NotEmpty(t, created.CreatedAt)

	// a later sign-in updates mutable fields but keeps the creation time
	renamed := models.Identity{ID: ownerIdentity.ID, DisplayName: "Avery R."}
	updated, err := env.profiles.EnsureProfile(ctx, renamed, "avery@example.com", "https://cdn.example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "Avery R.", updated.DisplayName)
	assert.Equal(t, "https://cdn.example.com/a.png", updated.AvatarURL)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.profiles.GetProfile(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.profiles.EnsureProfile(ctx, memberIdentity, "", "")
	require.NoError(t, err)

	profile, err := env.profiles.GetProfile(ctx, memberIdentity.ID)
	require.NoError(t, err)
	assert.Equal(t, memberIdentity.DisplayName, profile.DisplayName)
}

func TestGetProfilesSkipsMissing(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.profiles.EnsureProfile(ctx, ownerIdentity, "", "")
	require.NoError(t, err)
	_, err = env.profiles.EnsureProfile(ctx, memberIdentity, "", "")
	require.NoError(t, err)

	profiles, err := env.profiles.GetProfiles(ctx, []string{ownerIdentity.ID, "ghost", memberIdentity.ID})
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
	assert.Contains(t, profiles, ownerIdentity.ID)
	assert.Contains(t, profiles, memberIdentity.ID)
	assert.NotContains(t, profiles, "ghost")
}
