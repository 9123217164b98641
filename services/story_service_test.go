package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryAnonymity(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cove := env.newCoveWithMember(t)

	_, err := env.stories.CreateStory(ctx, memberIdentity, cove.ID, "the secret one", true)
	require.NoError(t, err)
	_, err = env.stories.CreateStory(ctx, ownerIdentity, cove.ID, "the signed one", false)
	require.NoError(t, err)

	stories, err := env.stories.ListStories(ctx, memberIdentity, cove.ID)
	require.NoError(t, err)
	require.Len(t, stories, 2)

	for _, story := range stories {
		switch story.Content {
		case "the secret one":
			assert.Equal(t, "Anonymous", story.AuthorName)
			// the author id stays so edit and delete rights survive
			assert.Equal(t, memberIdentity.ID, story.AuthorID)
		case "the signed one":
			assert.Equal(t, ownerIdentity.DisplayName, story.AuthorName)
		default:
			t.Fatalf("unexpected story %q", story.Content)
		}
	}
}

func TestEditStory(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cove := env.newCoveWithMember(t)

	story, err := env.stories.CreateStory(ctx, memberIdentity, cove.ID, "first draft", false)
	require.NoError(t, err)

	// even the cove owner cannot edit someone else's story
	err = env.stories.EditStory(ctx, ownerIdentity, cove.ID, story.ID, "rewritten")
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = env.stories.EditStory(ctx, memberIdentity, cove.ID, story.ID, "  final draft  ")
	require.NoError(t, err)

	stories, err := env.stories.ListStories(ctx, memberIdentity, cove.ID)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, "final draft", stories[0].Content)

	err = env.stories.EditStory(ctx, memberIdentity, cove.ID, story.ID, "   ")
	assert.Error(t, err)

	err = env.stories.EditStory(ctx, memberIdentity, cove.ID, "no-such-story", "text")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoryLikes(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cove := env.newCoveWithMember(t)

	story, err := env.stories.CreateStory(ctx, memberIdentity, cove.ID, "likeable", false)
	require.NoError(t, err)

	liked, err := env.stories.ToggleLike(ctx, ownerIdentity, cove.ID, story.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	has, err := env.stories.HasLiked(ctx, ownerIdentity, cove.ID, story.ID)
	require.NoError(t, err)
	assert.True(t, has)

	stories, err := env.stories.ListStories(ctx, memberIdentity, cove.ID)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, 1, stories[0].LikesCount)

	liked, err = env.stories.ToggleLike(ctx, ownerIdentity, cove.ID, story.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestDeleteStory(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cove := env.newCoveWithMember(t)

	story, err := env.stories.CreateStory(ctx, memberIdentity, cove.ID, "short lived", false)
	require.NoError(t, err)
	_, err = env.stories.ToggleLike(ctx, ownerIdentity, cove.ID, story.ID)
	require.NoError(t, err)

	// the cove owner may delete any story
	require.NoError(t, env.stories.DeleteStory(ctx, ownerIdentity, cove.ID, story.ID))

	stories, err := env.stories.ListStories(ctx, memberIdentity, cove.ID)
	require.NoError(t, err)
	assert.Empty(t, stories)
}
