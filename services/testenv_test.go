package services

import (
	"context"
	"testing"
	"time"

	"cove_server/models"

	"github.com/stretchr/testify/require"
)

// testEnv wires every service against one in-memory fake store, with a
// settable clock for the capsule lock predicate.
type testEnv struct {
	fake   *fakeDynamo
	dynamo *DynamoService

	coves     *CoveService
	reactions *ReactionService
	quotes    *QuoteService
	stories   *StoryService
	pins      *PinService
	capsules  *CapsuleService
	memories  *MemoryService
	profiles  *UserProfileService

	clock time.Time
}

func newTestEnv() *testEnv {
	env := &testEnv{
		fake:  newFakeDynamo(),
		clock: time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC),
	}
	env.dynamo = &DynamoService{Client: env.fake}
	env.coves = &CoveService{Dynamo: env.dynamo}
	env.reactions = &ReactionService{Dynamo: env.dynamo}
	env.quotes = &QuoteService{Dynamo: env.dynamo, Coves: env.coves, Reactions: env.reactions}
	env.stories = &StoryService{Dynamo: env.dynamo, Coves: env.coves, Reactions: env.reactions}
	env.pins = &PinService{Dynamo: env.dynamo, Coves: env.coves}
	env.capsules = &CapsuleService{Dynamo: env.dynamo, Coves: env.coves, Now: func() time.Time { return env.clock }}
	env.memories = &MemoryService{Dynamo: env.dynamo, Coves: env.coves, Capsules: env.capsules}
	env.profiles = &UserProfileService{Dynamo: env.dynamo}
	return env
}

var (
	ownerIdentity  = models.Identity{ID: "user-owner", DisplayName: "Avery"}
	memberIdentity = models.Identity{ID: "user-member", DisplayName: "Sam"}
	otherIdentity  = models.Identity{ID: "user-other", DisplayName: "Riley"}
)

// newCoveWithMember creates a cove owned by ownerIdentity and joins
// memberIdentity into it.
func (env *testEnv) newCoveWithMember(t *testing.T) *models.Cove {
	t.Helper()
	ctx := context.Background()

	cove, err := env.coves.CreateCove(ctx, ownerIdentity, "Summer Trip", "our shared memories")
	require.NoError(t, err)

	joined, err := env.coves.JoinCove(ctx, memberIdentity, cove.JoinCode)
	require.NoError(t, err)
	return joined
}
